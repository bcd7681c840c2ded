package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MarouaneBouaricha/ehamm/internal/api"
	"github.com/MarouaneBouaricha/ehamm/internal/config"
	"github.com/MarouaneBouaricha/ehamm/internal/store"
	"github.com/MarouaneBouaricha/ehamm/internal/telemetry"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	reg := configRegistry(serveCmd)
	d := cfg.API
	reg.String(name("api", "address"), d.Address, "address to listen on")
	reg.Int(name("api", "port"), d.Port, "port to listen on")
	reg.Int(name("api", "interval"), d.Interval, "seconds between two drains of the request queue")
	reg.String(name("metrics", "backend"), cfg.Metrics.Backend, "metrics backend (none, prometheus)")
}

func configRegistry(cmd *cobra.Command) config.Registry {
	return config.Registry{V: v, Flags: cmd.Flags()}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation API.",
	Long: `ehamm serve command.

The serve command starts the HTTP API and a worker that drains queued
simulation requests until the process is interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := store.New(cfg.Store.Type, cfg.Store.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		scope, closer, metricsHandler, err := telemetry.InitScope(cfg.Metrics.Backend, "ehamm", time.Second)
		if err != nil {
			return err
		}
		defer closer.Close()

		w := newWorker("worker-1", db, scope)
		if cfg.API.Interval > 0 {
			w.Interval = time.Duration(cfg.API.Interval) * time.Second
		}
		go w.RunRequests(ctx)

		log.WithField("store", cfg.Store.Type).Info("Worker started")
		a := api.New(cfg.API.Address, cfg.API.Port, w)
		if metricsHandler != nil {
			a.HandleMetrics(metricsHandler)
		}
		return a.Start(ctx)
	},
}
