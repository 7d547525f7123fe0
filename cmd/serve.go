package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TFMV/canopy/engine"
	"github.com/TFMV/canopy/ingest"
	"github.com/TFMV/canopy/server"
)

var (
	serveAddr  string
	serveData  string
	demoDepth  int
	demoFanout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive viewer over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		eng := engine.New(cfg, log)
		eng.SetSurfaceSize(1200, 800)
		if serveData != "" {
			g, err := loadGraph(serveData)
			if err != nil {
				return err
			}
			eng.SetData(g)
		} else {
			eng.SetData(ingest.BalancedTree(demoDepth, demoFanout))
			subtle.Printf("no --data given, serving a demo tree (depth %d, fanout %d)\n",
				demoDepth, demoFanout)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		good.Printf("canopy listening on http://%s\n", serveAddr)
		return server.New(eng, log).ListenAndServe(ctx, serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "localhost:8089", "listen address")
	serveCmd.Flags().StringVarP(&serveData, "data", "d", "", "graph file (.json or .csv)")
	serveCmd.Flags().IntVar(&demoDepth, "demo-depth", 3, "demo tree depth when no data file is given")
	serveCmd.Flags().IntVar(&demoFanout, "demo-fanout", 4, "demo tree fanout when no data file is given")
	rootCmd.AddCommand(serveCmd)
}
