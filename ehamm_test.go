package ehamm

import (
	"testing"

	"github.com/pkg/errors"
)

func TestPipeline(t *testing.T) {
	tasks := []float64{10, 10, 10, 1, 1, 1}
	a, err := Assign(tasks, 3)
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}
	r, err := Rebalance(a)
	if err != nil {
		t.Fatalf("Rebalance() error: %v", err)
	}

	for _, x := range []Assignment{a, r} {
		makespan, err := Makespan(x)
		if err != nil || makespan != 11 {
			t.Errorf("Makespan() = %v, %v; want 11", makespan, err)
		}
		v, err := TaskCountVariance(x)
		if err != nil || v != 0 {
			t.Errorf("TaskCountVariance() = %v, %v; want 0", v, err)
		}
		lv, err := LoadVariance(x)
		if err != nil || lv != 0 {
			t.Errorf("LoadVariance() = %v, %v; want 0", lv, err)
		}
	}
}

func TestPipelineErrors(t *testing.T) {
	if _, err := Assign([]float64{1}, 0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Assign() with no machines = %v", err)
	}

	a, err := Assign([]float64{5, 3, 8}, 1)
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}
	if m, _ := Makespan(a); m != 16 {
		t.Errorf("Makespan() = %v; want 16", m)
	}
	if _, err := TaskCountVariance(a); !errors.Is(err, ErrMetricsPrecondition) {
		t.Errorf("TaskCountVariance() with one machine = %v", err)
	}
	if _, err := Rebalance(Assignment{}); !errors.Is(err, ErrDegenerateState) {
		t.Errorf("Rebalance() without machines = %v", err)
	}
}

func TestGenerateAndRun(t *testing.T) {
	tasks, err := GenerateTasks(100, 1000, 1)
	if err != nil {
		t.Fatalf("GenerateTasks() error: %v", err)
	}

	w := NewWorker("facade")
	rep, err := w.Run(Request{Tasks: tasks, Machines: 4, Scheduler: "maxmin"})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := rep.Rebalanced.Assignment.TaskCount(); got != len(tasks) {
		t.Errorf("rebalanced assignment holds %d tasks; want %d", got, len(tasks))
	}

	if _, err := NewAssigner("minmin"); err != nil {
		t.Errorf("NewAssigner(minmin) error: %v", err)
	}
}
