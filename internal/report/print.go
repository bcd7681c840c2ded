package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
)

// Print writes the machines and metrics of both outcomes of r. With
// showTasks the task sizes of every machine are listed as well.
func Print(out io.Writer, r *Report, showTasks bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 5, ' ', tabwriter.TabIndent)
	fmt.Fprintf(w, "Run %s: %d tasks on %d machines (%s)\n\n", r.ID, r.TaskCount, r.Request.Machines, r.Request.Scheduler)

	printOutcome(w, "Initial assignment", r.Initial, showTasks)
	fmt.Fprintln(w)
	printOutcome(w, fmt.Sprintf("Rebalanced assignment (%d migrations)", len(r.Migrations)), r.Rebalanced, showTasks)

	return errors.Wrap(w.Flush(), "flushing report")
}

func printOutcome(w io.Writer, title string, o Outcome, showTasks bool) {
	fmt.Fprintln(w, title)
	if showTasks {
		fmt.Fprintln(w, "MACHINE\tTASKS\tLOAD\tSIZES\t")
	} else {
		fmt.Fprintln(w, "MACHINE\tTASKS\tLOAD\t")
	}
	for _, m := range o.Assignment {
		if showTasks {
			fmt.Fprintf(w, "%d\t%d\t%g\t%v\t\n", m.Index, m.Len(), m.Load(), m.Tasks)
		} else {
			fmt.Fprintf(w, "%d\t%d\t%g\t\n", m.Index, m.Len(), m.Load())
		}
	}

	s := o.Summary
	fmt.Fprintf(w, "Makespan:\t%g\n", s.Makespan)
	fmt.Fprintf(w, "Task count variance:\t%.4f\n", s.TaskCountVariance)
	fmt.Fprintf(w, "Load variance:\t%.4f\n", s.LoadVariance)
	fmt.Fprintf(w, "Min / max load:\t%g / %g\n", s.MinLoad, s.MaxLoad)
	fmt.Fprintf(w, "Average load:\t%.2f\n", s.AverageLoad)
	fmt.Fprintf(w, "Average task size:\t%.2f\n", s.AverageTaskSize)
	fmt.Fprintf(w, "Min to average:\t%.4f\n", s.MinToAverage)
	fmt.Fprintf(w, "Min to max:\t%.4f\n", s.MinToMax)
}

// PrintList writes one line per report.
func PrintList(out io.Writer, reports []*Report) error {
	w := tabwriter.NewWriter(out, 0, 0, 5, ' ', tabwriter.TabIndent)
	fmt.Fprintln(w, "ID\tSCHEDULER\tTASKS\tMACHINES\tMAKESPAN\tREBALANCED\tMIGRATIONS\tFINISHED\t")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%g\t%g\t%d\t%s\t\n",
			r.ID, r.Request.Scheduler, r.TaskCount, r.Request.Machines,
			r.Initial.Summary.Makespan, r.Rebalanced.Summary.Makespan,
			len(r.Migrations), r.FinishTime.Format("2006-01-02 15:04:05"))
	}
	return errors.Wrap(w.Flush(), "flushing report list")
}
