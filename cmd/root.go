package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TFMV/canopy/config"
	"github.com/TFMV/canopy/graph"
	"github.com/TFMV/canopy/ingest"
)

var version = "0.1.0"

var (
	configPath string
	verbose    bool

	bad    = color.New(color.FgRed)
	good   = color.New(color.FgGreen)
	subtle = color.New(color.Faint)
)

var rootCmd = &cobra.Command{
	Use:          "canopy",
	Short:        "canopy — interactive force-directed graph viewer",
	Long:         "canopy lays out node-link graphs with a force simulation and serves\nor renders them as pannable, zoomable scenes.",
	Version:      version,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		bad.Fprintf(os.Stderr, "canopy: %v\n", err)
		return nil, err
	}
	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return zcfg.Build()
}

// loadGraph reads a graph from a JSON or CSV file, chosen by extension.
func loadGraph(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ingest.FromCSV(f)
	case ".json":
		return ingest.FromJSON(f)
	default:
		return nil, fmt.Errorf("unsupported graph format %q (want .json or .csv)", filepath.Ext(path))
	}
}
