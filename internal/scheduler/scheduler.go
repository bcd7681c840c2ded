package scheduler

import (
	"github.com/MarouaneBouaricha/ehamm/internal/machine"
	"github.com/MarouaneBouaricha/ehamm/internal/task"

	"github.com/pkg/errors"
)

const (
	HAMMName       = "hamm"
	MinMinName     = "minmin"
	MaxMinName     = "maxmin"
	RoundRobinName = "roundrobin"
)

var (
	// ErrInvalidConfiguration is returned before scheduling starts when the
	// machine count or the task set cannot be scheduled.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrDegenerateState is returned when an assignment cannot be classified
	// for rebalancing.
	ErrDegenerateState = errors.New("degenerate state")

	ErrUnknownScheduler = errors.New("unknown scheduler")
)

// Assigner places every task of a batch onto one of machineCount initially
// empty machines.
type Assigner interface {
	Name() string
	Assign(tasks []float64, machineCount int) (machine.Assignment, error)
}

// New returns the assigner registered under name. An empty name selects
// HAMM.
func New(name string) (Assigner, error) {
	switch name {
	case HAMMName, "":
		return &HAMM{}, nil
	case MinMinName:
		return &MinMin{}, nil
	case MaxMinName:
		return &MaxMin{}, nil
	case RoundRobinName:
		return &RoundRobin{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownScheduler, "%q", name)
	}
}

// Names lists the registered assigners.
func Names() []string {
	return []string{HAMMName, MinMinName, MaxMinName, RoundRobinName}
}

func validate(tasks []float64, machineCount int) error {
	if machineCount <= 0 {
		return errors.Wrapf(ErrInvalidConfiguration, "machine count must be positive, got %d", machineCount)
	}
	if len(tasks) == 0 {
		return errors.Wrap(ErrInvalidConfiguration, "no tasks to schedule")
	}
	if err := task.Validate(tasks); err != nil {
		return errors.Wrap(ErrInvalidConfiguration, err.Error())
	}
	return nil
}
