// Package metrics computes makespan and balance figures for an assignment.
// All functions are pure reductions over the machines.
package metrics

import (
	"math"

	"github.com/MarouaneBouaricha/ehamm/internal/machine"

	"github.com/pkg/errors"
)

// ErrPrecondition is returned when a metric is undefined for the given
// assignment, e.g. a sample variance over fewer than two machines.
var ErrPrecondition = errors.New("metrics precondition failed")

// Summary is the pair of headline metrics plus the load figures printed
// alongside them.
type Summary struct {
	Makespan          float64 `json:"makespan"`
	TaskCountVariance float64 `json:"taskCountVariance"`
	LoadVariance      float64 `json:"loadVariance"`
	MinLoad           float64 `json:"minLoad"`
	MaxLoad           float64 `json:"maxLoad"`
	AverageLoad       float64 `json:"averageLoad"`
	AverageTaskSize   float64 `json:"averageTaskSize"`
	// MinToAverage is 1 - MinLoad/AverageLoad.
	MinToAverage float64 `json:"minToAverage"`
	// MinToMax is 1 - MinLoad/MaxLoad.
	MinToMax float64 `json:"minToMax"`
}

// Makespan is the largest total load on any machine.
func Makespan(a machine.Assignment) (float64, error) {
	if len(a) == 0 {
		return 0, errors.Wrap(ErrPrecondition, "makespan of an assignment without machines")
	}
	makespan := 0.0
	for _, m := range a {
		makespan = math.Max(makespan, m.Load())
	}
	return makespan, nil
}

// TaskCountVariance is the sample variance of the number of tasks per
// machine. It ignores task sizes.
func TaskCountVariance(a machine.Assignment) (float64, error) {
	counts := make([]float64, len(a))
	for i, c := range a.Counts() {
		counts[i] = float64(c)
	}
	v, err := sampleVariance(counts)
	return v, errors.Wrap(err, "task count variance")
}

// LoadVariance is the sample variance of the total load per machine.
func LoadVariance(a machine.Assignment) (float64, error) {
	v, err := sampleVariance(a.Loads())
	return v, errors.Wrap(err, "load variance")
}

func sampleVariance(xs []float64) (float64, error) {
	n := len(xs)
	if n <= 1 {
		return 0, errors.Wrapf(ErrPrecondition, "sample variance needs at least 2 machines, got %d", n)
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)

	ss := 0.0
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return ss / float64(n-1), nil
}

// Summarize computes every metric of a. It fails with ErrPrecondition for
// assignments with fewer than two machines or without tasks.
func Summarize(a machine.Assignment) (Summary, error) {
	var s Summary
	var err error
	if s.Makespan, err = Makespan(a); err != nil {
		return Summary{}, err
	}
	if s.TaskCountVariance, err = TaskCountVariance(a); err != nil {
		return Summary{}, err
	}
	if s.LoadVariance, err = LoadVariance(a); err != nil {
		return Summary{}, err
	}

	tasks := a.TaskCount()
	if tasks == 0 {
		return Summary{}, errors.Wrap(ErrPrecondition, "assignment has no tasks")
	}

	total := a.TotalLoad()
	s.MaxLoad = s.Makespan
	s.MinLoad = math.Inf(1)
	for _, l := range a.Loads() {
		s.MinLoad = math.Min(s.MinLoad, l)
	}
	s.AverageLoad = total / float64(len(a))
	s.AverageTaskSize = total / float64(tasks)
	s.MinToAverage = 1 - s.MinLoad/s.AverageLoad
	s.MinToMax = 1 - s.MinLoad/s.MaxLoad
	return s, nil
}
