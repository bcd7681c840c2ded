package scheduler

import (
	"github.com/MarouaneBouaricha/ehamm/internal/machine"

	log "github.com/sirupsen/logrus"
)

// Rule is the placement rule chosen for a single step.
type Rule int

const (
	MaxMinRule Rule = iota
	MinMinRule
	RoundRobinRule
)

func (r Rule) String() string {
	switch r {
	case MaxMinRule:
		return "max-min"
	case MinMinRule:
		return "min-min"
	case RoundRobinRule:
		return "round-robin"
	}
	return "unknown"
}

// Placement records one step of an assignment run.
type Placement struct {
	Step    int     `json:"step"`
	Size    float64 `json:"size"`
	Machine int     `json:"machine"`
	Rule    Rule    `json:"rule"`
}

// HAMM is the hybrid Min-Min / Max-Min assigner. Before every placement it
// looks at the tasks that are still unplaced: when at least half of them
// are at or below their mean it places the largest one, otherwise the
// smallest one. The chosen task always goes to the least loaded machine.
type HAMM struct{}

func (h *HAMM) Name() string {
	return HAMMName
}

func (h *HAMM) Assign(tasks []float64, machineCount int) (machine.Assignment, error) {
	a, _, err := h.AssignWithTrace(tasks, machineCount)
	return a, err
}

// AssignWithTrace is Assign that also returns one Placement per task, in
// placement order.
func (h *HAMM) AssignWithTrace(tasks []float64, machineCount int) (machine.Assignment, []Placement, error) {
	if err := validate(tasks, machineCount); err != nil {
		return nil, nil, err
	}

	a, trace := place(tasks, machineCount, chooseAdaptive)
	return a, trace, nil
}

// chooseAdaptive picks the next task from the remaining ones using the
// lower/higher split around their mean.
func chooseAdaptive(remaining []float64) (int, Rule) {
	sum := 0.0
	for _, s := range remaining {
		sum += s
	}
	avg := sum / float64(len(remaining))

	lower, higher := 0, 0
	for _, s := range remaining {
		if s <= avg {
			lower++
		} else {
			higher++
		}
	}

	if lower >= higher {
		return largest(remaining), MaxMinRule
	}
	return smallest(remaining), MinMinRule
}

type chooser func(remaining []float64) (int, Rule)

// place runs the shared greedy loop: choose a task, put it on the least
// loaded machine, drop it from the remaining set.
func place(tasks []float64, machineCount int, choose chooser) (machine.Assignment, []Placement) {
	remaining := make([]float64, len(tasks))
	copy(remaining, tasks)

	a := machine.New(machineCount)
	trace := make([]Placement, 0, len(tasks))
	for step := 0; len(remaining) > 0; step++ {
		i, rule := choose(remaining)
		size := remaining[i]

		target := a.MinLoadIndex()
		a[target].Append(size)

		last := len(remaining) - 1
		remaining[i] = remaining[last]
		remaining = remaining[:last]

		trace = append(trace, Placement{Step: step, Size: size, Machine: target, Rule: rule})
		log.WithFields(log.Fields{
			"step":    step,
			"size":    size,
			"machine": target,
			"rule":    rule.String(),
		}).Trace("placed task")
	}
	return a, trace
}

// largest returns the index of the first maximal element.
func largest(sizes []float64) int {
	idx := 0
	for i, s := range sizes {
		if s > sizes[idx] {
			idx = i
		}
	}
	return idx
}

// smallest returns the index of the first minimal element.
func smallest(sizes []float64) int {
	idx := 0
	for i, s := range sizes {
		if s < sizes[idx] {
			idx = i
		}
	}
	return idx
}
