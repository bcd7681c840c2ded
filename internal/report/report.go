package report

import (
	"time"

	"github.com/MarouaneBouaricha/ehamm/internal/machine"
	"github.com/MarouaneBouaricha/ehamm/internal/metrics"
	"github.com/MarouaneBouaricha/ehamm/internal/scheduler"
	"github.com/MarouaneBouaricha/ehamm/internal/task"

	"github.com/google/uuid"
)

// Request asks for one scheduling run. When Tasks is empty the workload is
// generated from Generate.
type Request struct {
	ID        uuid.UUID   `json:"id"`
	Tasks     []float64   `json:"tasks,omitempty"`
	Generate  task.Config `json:"generate"`
	Machines  int         `json:"machines"`
	Scheduler string      `json:"scheduler"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewRequest(machines int, schedulerName string) Request {
	return Request{
		ID:        uuid.New(),
		Generate:  task.NewConfig(),
		Machines:  machines,
		Scheduler: schedulerName,
		Timestamp: time.Now().UTC(),
	}
}

// Outcome is an assignment together with its metrics.
type Outcome struct {
	Assignment machine.Assignment `json:"assignment"`
	Summary    metrics.Summary    `json:"summary"`
}

// Report is the result of a finished run: the initial assignment produced
// by the scheduler and the rebalanced one.
type Report struct {
	ID         uuid.UUID             `json:"id"`
	Request    Request               `json:"request"`
	TaskCount  int                   `json:"taskCount"`
	Initial    Outcome               `json:"initial"`
	Rebalanced Outcome               `json:"rebalanced"`
	Migrations []scheduler.Migration `json:"migrations"`
	StartTime  time.Time             `json:"startTime"`
	FinishTime time.Time             `json:"finishTime"`
}

// Restore rebuilds the derived machine state after a report was decoded.
func (r *Report) Restore() {
	r.Initial.Assignment.Reindex()
	r.Rebalanced.Assignment.Reindex()
}
