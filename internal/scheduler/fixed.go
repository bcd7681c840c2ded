package scheduler

import "github.com/MarouaneBouaricha/ehamm/internal/machine"

// MinMin always places the smallest remaining task on the least loaded
// machine.
type MinMin struct{}

func (m *MinMin) Name() string {
	return MinMinName
}

func (m *MinMin) Assign(tasks []float64, machineCount int) (machine.Assignment, error) {
	if err := validate(tasks, machineCount); err != nil {
		return nil, err
	}
	a, _ := place(tasks, machineCount, func(remaining []float64) (int, Rule) {
		return smallest(remaining), MinMinRule
	})
	return a, nil
}

// MaxMin always places the largest remaining task on the least loaded
// machine.
type MaxMin struct{}

func (m *MaxMin) Name() string {
	return MaxMinName
}

func (m *MaxMin) Assign(tasks []float64, machineCount int) (machine.Assignment, error) {
	if err := validate(tasks, machineCount); err != nil {
		return nil, err
	}
	a, _ := place(tasks, machineCount, func(remaining []float64) (int, Rule) {
		return largest(remaining), MaxMinRule
	})
	return a, nil
}
