package machine

import "math"

// Machine is a homogeneous worker holding the sizes of the tasks placed on
// it. Its load is the sum of those sizes.
type Machine struct {
	Index int       `json:"index"`
	Tasks []float64 `json:"tasks"`
	load  float64
}

func NewMachine(index int) *Machine {
	return &Machine{Index: index, Tasks: []float64{}}
}

func (m *Machine) Append(size float64) {
	m.Tasks = append(m.Tasks, size)
	m.load += size
}

// RemoveAt removes the task at position i, keeping the order of the
// remaining tasks, and returns its size.
func (m *Machine) RemoveAt(i int) float64 {
	size := m.Tasks[i]
	m.Tasks = append(m.Tasks[:i], m.Tasks[i+1:]...)
	m.load -= size
	if len(m.Tasks) == 0 {
		m.load = 0
	}
	return size
}

func (m *Machine) Load() float64 {
	return m.load
}

func (m *Machine) Len() int {
	return len(m.Tasks)
}

// Average returns the mean task size on the machine. The second value is
// false when the machine is empty and the average is undefined.
func (m *Machine) Average() (float64, bool) {
	if len(m.Tasks) == 0 {
		return 0, false
	}
	return m.load / float64(len(m.Tasks)), true
}

// SmallestIndex returns the position of the first smallest task, or -1 for
// an empty machine.
func (m *Machine) SmallestIndex() int {
	idx := -1
	smallest := math.Inf(1)
	for i, size := range m.Tasks {
		if size < smallest {
			smallest = size
			idx = i
		}
	}
	return idx
}

func (m *Machine) clone() *Machine {
	c := &Machine{Index: m.Index, Tasks: make([]float64, len(m.Tasks)), load: m.load}
	copy(c.Tasks, m.Tasks)
	return c
}

// recompute restores the running load after the machine was decoded from
// JSON or built by hand.
func (m *Machine) recompute() {
	m.load = 0
	for _, size := range m.Tasks {
		m.load += size
	}
}
