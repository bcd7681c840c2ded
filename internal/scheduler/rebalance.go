package scheduler

import (
	"math"

	"github.com/MarouaneBouaricha/ehamm/internal/machine"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Classification splits machines by their average task size. HighLoad
// holds the machines whose average is strictly below the mean of all
// averages: they tend to collect many small tasks and therefore donate.
// Every other machine, including empty ones, is LowLoad.
type Classification struct {
	HighLoad []int
	LowLoad  []int
	// Averages is NaN for empty machines.
	Averages []float64
	Mean     float64
}

// Migration records one task moved by the rebalancer.
type Migration struct {
	From      int     `json:"from"`
	To        int     `json:"to"`
	Size      float64 `json:"size"`
	GapBefore float64 `json:"gapBefore"`
	GapAfter  float64 `json:"gapAfter"`
}

// Rebalancer moves single tasks from HighLoad machines to the least loaded
// LowLoad machine while that strictly narrows the load gap between them.
type Rebalancer struct{}

func NewRebalancer() *Rebalancer {
	return &Rebalancer{}
}

// Classify computes the HighLoad/LowLoad split of a. Empty machines have no
// average; they are left out of the mean and always classified LowLoad.
func (r *Rebalancer) Classify(a machine.Assignment) (Classification, error) {
	if len(a) == 0 {
		return Classification{}, errors.Wrap(ErrDegenerateState, "assignment has no machines")
	}
	if a.TaskCount() == 0 {
		return Classification{}, errors.Wrap(ErrDegenerateState, "assignment has no tasks")
	}

	c := Classification{Averages: make([]float64, len(a))}
	sum, n := 0.0, 0
	top := math.Inf(-1)
	for i, m := range a {
		avg, ok := m.Average()
		if !ok {
			c.Averages[i] = math.NaN()
			continue
		}
		c.Averages[i] = avg
		sum += avg
		n++
		if avg > top {
			top = avg
		}
	}
	c.Mean = sum / float64(n)

	for i, avg := range c.Averages {
		// The top average can never be below the true mean; comparing it
		// against a rounded mean could otherwise leave LowLoad empty.
		if !math.IsNaN(avg) && avg != top && avg < c.Mean {
			c.HighLoad = append(c.HighLoad, i)
		} else {
			c.LowLoad = append(c.LowLoad, i)
		}
	}
	return c, nil
}

// Rebalance returns a rebalanced copy of a. The input is left untouched.
func (r *Rebalancer) Rebalance(a machine.Assignment) (machine.Assignment, error) {
	out, _, err := r.RebalanceWithTrace(a)
	return out, err
}

// RebalanceWithTrace is Rebalance that also returns the accepted
// migrations in the order they were applied.
func (r *Rebalancer) RebalanceWithTrace(a machine.Assignment) (machine.Assignment, []Migration, error) {
	c, err := r.Classify(a)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(log.Fields{
		"high_load": c.HighLoad,
		"low_load":  c.LowLoad,
		"mean":      c.Mean,
	}).Debug("classified machines")

	out := a.Clone()
	high := append([]int(nil), c.HighLoad...)
	low := append([]int(nil), c.LowLoad...)
	var migrations []Migration

	for len(high) > 0 {
		hi := pickLoad(out, high, true)
		donor := out[high[hi]]

		// Moving the only task off a machine never narrows the gap, and
		// would leave a donor without an average.
		if donor.Len() <= 1 {
			low = append(low, high[hi])
			high = append(high[:hi], high[hi+1:]...)
			continue
		}

		receiver := out[low[pickLoad(out, low, false)]]
		ti := donor.SmallestIndex()
		size := donor.Tasks[ti]

		before := math.Abs(donor.Load() - receiver.Load())
		after := math.Abs((donor.Load() - size) - (receiver.Load() + size))
		if before > after {
			donor.RemoveAt(ti)
			receiver.Append(size)
			migrations = append(migrations, Migration{
				From:      donor.Index,
				To:        receiver.Index,
				Size:      size,
				GapBefore: before,
				GapAfter:  after,
			})
			continue
		}

		low = append(low, high[hi])
		high = append(high[:hi], high[hi+1:]...)
	}

	log.WithField("migrations", len(migrations)).Debug("rebalancing finished")
	return out, migrations, nil
}

// pickLoad returns the position within candidates of the machine with the
// highest or lowest load. Ties go to the lowest machine index.
func pickLoad(a machine.Assignment, candidates []int, highest bool) int {
	best := 0
	for pos := 1; pos < len(candidates); pos++ {
		cur, prev := a[candidates[pos]], a[candidates[best]]
		switch {
		case highest && cur.Load() > prev.Load(),
			!highest && cur.Load() < prev.Load(),
			cur.Load() == prev.Load() && cur.Index < prev.Index:
			best = pos
		}
	}
	return best
}
