package cli

import (
	"github.com/MarouaneBouaricha/ehamm/internal/config"
	"github.com/MarouaneBouaricha/ehamm/internal/store"
	"github.com/MarouaneBouaricha/ehamm/internal/worker"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/uber-go/tally/v4"
)

var (
	v   = config.NewViper()
	cfg = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "ehamm",
	Short: "A Cli to simulate HAMM and Enhanced HAMM batch scheduling",
	Long: `A Cli to simulate HAMM and Enhanced HAMM batch scheduling.

HAMM places independent tasks onto homogeneous machines, switching between
Min-Min and Max-Min depending on the remaining task sizes. Enhanced HAMM
then moves small tasks off overloaded machines. Every run reports makespan
and load variance for both assignments.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = c
		return setupLogging(cfg.Log)
	},
}

func name(components ...string) config.Key { return components }

func init() {
	reg := config.Registry{V: v, Flags: rootCmd.PersistentFlags()}
	d := config.DefaultConfig()

	reg.String(name("config-file"), d.ConfigFile, "location of config file")
	reg.String(name("log", "level"), d.Log.Level,
		"choose logging level from [trace, debug, info, warn, error, fatal]")
	reg.Bool(name("log", "color"), d.Log.Color, "output logs in color")
	reg.String(name("store", "type"), d.Store.Type, "report store type (memory, persistent)")
	reg.String(name("store", "path"), d.Store.Path, "report database file for the persistent store")
	reg.Int(name("simulation", "max-tasks"), d.Simulation.MaxTasks, "largest task count accepted for one run (0 for no limit)")
	reg.Int(name("simulation", "max-machines"), d.Simulation.MaxMachines, "largest machine count accepted for one run (0 for no limit)")
}

func setupLogging(c config.LogConfig) error {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		ForceColors:   c.Color,
		DisableColors: !c.Color,
		FullTimestamp: true,
	})
	return nil
}

// newWorker creates a worker with the configured request limits.
func newWorker(name string, db store.Store, scope tally.Scope) *worker.Worker {
	w := worker.New(name, db, scope)
	w.MaxTasks = cfg.Simulation.MaxTasks
	w.MaxMachines = cfg.Simulation.MaxMachines
	return w
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	return nil
}
