package ehamm

import (
	"github.com/MarouaneBouaricha/ehamm/internal/machine"
	"github.com/MarouaneBouaricha/ehamm/internal/metrics"
	"github.com/MarouaneBouaricha/ehamm/internal/report"
	"github.com/MarouaneBouaricha/ehamm/internal/scheduler"
	"github.com/MarouaneBouaricha/ehamm/internal/store"
	"github.com/MarouaneBouaricha/ehamm/internal/task"
	"github.com/MarouaneBouaricha/ehamm/internal/worker"

	"github.com/uber-go/tally/v4"
)

// Public surface of the module: the scheduling core plus the runner used by
// the CLI and the API.

type Assignment = machine.Assignment
type Machine = machine.Machine
type Assigner = scheduler.Assigner
type Rebalancer = scheduler.Rebalancer
type Migration = scheduler.Migration
type Summary = metrics.Summary
type Request = report.Request
type Report = report.Report
type Worker = worker.Worker

var (
	ErrInvalidConfiguration = scheduler.ErrInvalidConfiguration
	ErrDegenerateState      = scheduler.ErrDegenerateState
	ErrMetricsPrecondition  = metrics.ErrPrecondition
)

// Assign places tasks on machineCount machines with HAMM.
func Assign(tasks []float64, machineCount int) (Assignment, error) {
	return (&scheduler.HAMM{}).Assign(tasks, machineCount)
}

// Rebalance applies the Enhanced HAMM pass to a copy of a.
func Rebalance(a Assignment) (Assignment, error) {
	return scheduler.NewRebalancer().Rebalance(a)
}

// Makespan is the largest machine load of a.
func Makespan(a Assignment) (float64, error) {
	return metrics.Makespan(a)
}

// TaskCountVariance is the sample variance of per-machine task counts.
func TaskCountVariance(a Assignment) (float64, error) {
	return metrics.TaskCountVariance(a)
}

// LoadVariance is the sample variance of per-machine loads.
func LoadVariance(a Assignment) (float64, error) {
	return metrics.LoadVariance(a)
}

// NewAssigner returns the assigner registered under name.
func NewAssigner(name string) (Assigner, error) {
	return scheduler.New(name)
}

// GenerateTasks returns count random sizes in [1, sizeCap].
func GenerateTasks(count, sizeCap int, seed int64) ([]float64, error) {
	return task.Generate(task.Config{Count: count, SizeCap: sizeCap, Seed: seed})
}

// NewWorker creates a worker keeping its reports in memory.
func NewWorker(name string) *Worker {
	return worker.New(name, store.NewInMemoryReportStore(), tally.NoopScope)
}
