package machine

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMachineAppendRemove(t *testing.T) {
	m := NewMachine(0)
	if _, ok := m.Average(); ok {
		t.Errorf("expected undefined average for empty machine")
	}
	if got := m.SmallestIndex(); got != -1 {
		t.Errorf("SmallestIndex() on empty machine = %d; want -1", got)
	}

	for _, s := range []float64{4, 1, 7, 1} {
		m.Append(s)
	}
	if m.Load() != 13 {
		t.Errorf("Load() = %v; want 13", m.Load())
	}
	if got := m.SmallestIndex(); got != 1 {
		t.Errorf("SmallestIndex() = %d; want 1", got)
	}
	avg, ok := m.Average()
	if !ok || avg != 3.25 {
		t.Errorf("Average() = %v, %v; want 3.25, true", avg, ok)
	}

	removed := m.RemoveAt(1)
	if removed != 1 {
		t.Errorf("RemoveAt(1) = %v; want 1", removed)
	}
	want := []float64{4, 7, 1}
	if !cmp.Equal(m.Tasks, want) {
		t.Errorf("-want/+got: \n%s", cmp.Diff(want, m.Tasks))
	}
	if m.Load() != 12 {
		t.Errorf("Load() = %v; want 12", m.Load())
	}
}

func TestAssignmentMinLoadIndex(t *testing.T) {
	tests := []struct {
		name  string
		tasks [][]float64
		want  int
	}{
		{"all empty picks first", [][]float64{{}, {}, {}}, 0},
		{"tie picks lowest index", [][]float64{{5}, {3}, {3}}, 1},
		{"strict minimum", [][]float64{{5}, {3}, {2}}, 2},
		{"no machines", nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromTasks(tt.tasks).MinLoadIndex()
			if got != tt.want {
				t.Errorf("MinLoadIndex() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestAssignmentCloneIsIndependent(t *testing.T) {
	a := FromTasks([][]float64{{1, 2}, {3}})
	c := a.Clone()
	c[0].Append(10)
	c[1].RemoveAt(0)

	if a[0].Load() != 3 || a[1].Load() != 3 {
		t.Errorf("original mutated through clone: loads %v", a.Loads())
	}
	if !cmp.Equal(a.Counts(), []int{2, 1}) {
		t.Errorf("original counts changed: %v", a.Counts())
	}
	if a.TaskCount() != 3 || a.TotalLoad() != 6 {
		t.Errorf("TaskCount() = %d, TotalLoad() = %v; want 3, 6", a.TaskCount(), a.TotalLoad())
	}
}

func TestAssignmentReindexAfterDecode(t *testing.T) {
	a := FromTasks([][]float64{{1, 2}, {}, {9}})
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Assignment
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	decoded.Reindex()

	if !cmp.Equal(decoded.Loads(), []float64{3, 0, 9}) {
		t.Errorf("-want/+got: \n%s", cmp.Diff([]float64{3, 0, 9}, decoded.Loads()))
	}
	if !cmp.Equal(decoded.Sizes(), []float64{1, 2, 9}) {
		t.Errorf("Sizes() = %v", decoded.Sizes())
	}
}
