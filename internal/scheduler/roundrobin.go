package scheduler

import "github.com/MarouaneBouaricha/ehamm/internal/machine"

// RoundRobin ignores loads and deals the tasks out in input order,
// starting after LastWorker. LastWorker is left on the machine that got the
// last task, so a reused RoundRobin continues where it stopped.
type RoundRobin struct {
	LastWorker int
}

func (r *RoundRobin) Name() string {
	return RoundRobinName
}

func (r *RoundRobin) Assign(tasks []float64, machineCount int) (machine.Assignment, error) {
	if err := validate(tasks, machineCount); err != nil {
		return nil, err
	}

	a := machine.New(machineCount)
	next := ((r.LastWorker % machineCount) + machineCount) % machineCount
	for _, size := range tasks {
		next = (next + 1) % machineCount
		a[next].Append(size)
	}
	r.LastWorker = next
	return a, nil
}
