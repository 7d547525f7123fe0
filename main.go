package main

import (
	"os"

	"github.com/TFMV/canopy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
