package machine

import "math"

// Assignment maps every machine, by index, to the tasks placed on it.
type Assignment []*Machine

// New returns count empty machines. A non-positive count yields an empty
// assignment; callers validate the count first.
func New(count int) Assignment {
	if count < 0 {
		count = 0
	}
	a := make(Assignment, count)
	for i := range a {
		a[i] = NewMachine(i)
	}
	return a
}

// FromTasks builds an assignment from explicit per-machine task lists.
func FromTasks(tasks [][]float64) Assignment {
	a := make(Assignment, len(tasks))
	for i, ts := range tasks {
		m := NewMachine(i)
		for _, size := range ts {
			m.Append(size)
		}
		a[i] = m
	}
	return a
}

func (a Assignment) Clone() Assignment {
	c := make(Assignment, len(a))
	for i, m := range a {
		c[i] = m.clone()
	}
	return c
}

// Reindex restores the index and running load of every machine. It is
// needed after an assignment has been decoded.
func (a Assignment) Reindex() {
	for i, m := range a {
		m.Index = i
		m.recompute()
	}
}

// Sizes flattens the assignment into the multiset of all placed task sizes.
func (a Assignment) Sizes() []float64 {
	var sizes []float64
	for _, m := range a {
		sizes = append(sizes, m.Tasks...)
	}
	return sizes
}

func (a Assignment) Loads() []float64 {
	loads := make([]float64, len(a))
	for i, m := range a {
		loads[i] = m.Load()
	}
	return loads
}

func (a Assignment) Counts() []int {
	counts := make([]int, len(a))
	for i, m := range a {
		counts[i] = m.Len()
	}
	return counts
}

func (a Assignment) TaskCount() int {
	n := 0
	for _, m := range a {
		n += m.Len()
	}
	return n
}

func (a Assignment) TotalLoad() float64 {
	total := 0.0
	for _, m := range a {
		total += m.Load()
	}
	return total
}

// MinLoadIndex returns the index of the least loaded machine. Ties go to the
// lowest index. It returns -1 for an empty assignment.
func (a Assignment) MinLoadIndex() int {
	idx := -1
	lowest := math.Inf(1)
	for i, m := range a {
		if m.Load() < lowest {
			lowest = m.Load()
			idx = i
		}
	}
	return idx
}
