package cli

import (
	"strings"

	"github.com/MarouaneBouaricha/ehamm/internal/report"
	"github.com/MarouaneBouaricha/ehamm/internal/scheduler"
	"github.com/MarouaneBouaricha/ehamm/internal/store"
	"github.com/MarouaneBouaricha/ehamm/internal/task"

	"github.com/spf13/cobra"
	"github.com/uber-go/tally/v4"
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	reg := configRegistry(simulateCmd)
	d := cfg.Simulation
	reg.Int(name("simulation", "tasks"), d.Tasks, "number of tasks to generate")
	reg.Int(name("simulation", "size-cap"), d.SizeCap, "largest generated task size")
	reg.Int64(name("simulation", "seed"), d.Seed, "seed of the task generator")
	reg.Int(name("simulation", "machines"), d.Machines, "number of machines")
	reg.String(name("simulation", "scheduler"), d.Scheduler,
		"initial assignment heuristic ("+strings.Join(scheduler.Names(), ", ")+")")

	simulateCmd.Flags().Float64Slice("sizes", nil, "explicit task sizes; disables generation")
	simulateCmd.Flags().Bool("show-tasks", false, "list the task sizes on every machine")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one HAMM / Enhanced HAMM comparison.",
	Long: `ehamm simulate command.

The simulate command schedules a batch of tasks with the chosen heuristic,
rebalances the result and prints both assignments with their metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sizes, err := cmd.Flags().GetFloat64Slice("sizes")
		if err != nil {
			return err
		}
		showTasks, err := cmd.Flags().GetBool("show-tasks")
		if err != nil {
			return err
		}

		db, err := store.New(cfg.Store.Type, cfg.Store.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		w := newWorker("cli", db, tally.NoopScope)
		req := report.NewRequest(cfg.Simulation.Machines, cfg.Simulation.Scheduler)
		req.Tasks = sizes
		req.Generate = task.Config{
			Count:   cfg.Simulation.Tasks,
			SizeCap: cfg.Simulation.SizeCap,
			Seed:    cfg.Simulation.Seed,
		}

		rep, err := w.Run(req)
		if err != nil {
			return err
		}
		return report.Print(cmd.OutOrStdout(), rep, showTasks)
	},
}
