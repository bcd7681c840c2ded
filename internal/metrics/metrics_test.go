package metrics

import (
	"testing"

	"github.com/MarouaneBouaricha/ehamm/internal/machine"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
)

func TestMakespan(t *testing.T) {
	tests := []struct {
		name  string
		tasks [][]float64
		want  float64
	}{
		{"single machine", [][]float64{{5, 3, 8}}, 16},
		{"balanced", [][]float64{{10, 1}, {10, 1}, {10, 1}}, 11},
		{"outlier", [][]float64{{100}, {1, 1, 1, 1}}, 100},
		{"empty machines", [][]float64{{}, {}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Makespan(machine.FromTasks(tt.tasks))
			if err != nil {
				t.Fatalf("Makespan() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Makespan() = %v; want %v", got, tt.want)
			}
		})
	}

	if _, err := Makespan(machine.New(0)); !errors.Is(err, ErrPrecondition) {
		t.Errorf("Makespan() without machines = %v; want ErrPrecondition", err)
	}
}

func TestVariances(t *testing.T) {
	tests := []struct {
		name         string
		tasks        [][]float64
		wantCountVar float64
		wantLoadVar  float64
	}{
		{"equal counts and loads", [][]float64{{10, 1}, {10, 1}, {10, 1}}, 0, 0},
		// counts 1 and 4: mean 2.5, ss 4.5; loads 100 and 4: mean 52, ss 4608
		{"outlier", [][]float64{{100}, {1, 1, 1, 1}}, 4.5, 4608},
		// counts 2,1,3: mean 2, ss 2; loads 4,4,4
		{"counts differ loads equal", [][]float64{{2, 2}, {4}, {1, 1, 2}}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := machine.FromTasks(tt.tasks)
			cv, err := TaskCountVariance(a)
			if err != nil {
				t.Fatalf("TaskCountVariance() error: %v", err)
			}
			if cv != tt.wantCountVar {
				t.Errorf("TaskCountVariance() = %v; want %v", cv, tt.wantCountVar)
			}
			lv, err := LoadVariance(a)
			if err != nil {
				t.Fatalf("LoadVariance() error: %v", err)
			}
			if lv != tt.wantLoadVar {
				t.Errorf("LoadVariance() = %v; want %v", lv, tt.wantLoadVar)
			}
		})
	}
}

func TestVarianceNeedsTwoMachines(t *testing.T) {
	for _, n := range []int{0, 1} {
		a := machine.New(n)
		if n == 1 {
			a = machine.FromTasks([][]float64{{5, 3, 8}})
		}
		if _, err := TaskCountVariance(a); !errors.Is(err, ErrPrecondition) {
			t.Errorf("TaskCountVariance() with %d machines = %v; want ErrPrecondition", n, err)
		}
		if _, err := LoadVariance(a); !errors.Is(err, ErrPrecondition) {
			t.Errorf("LoadVariance() with %d machines = %v; want ErrPrecondition", n, err)
		}
		if _, err := Summarize(a); !errors.Is(err, ErrPrecondition) {
			t.Errorf("Summarize() with %d machines = %v; want ErrPrecondition", n, err)
		}
	}
}

func TestSummarize(t *testing.T) {
	a := machine.FromTasks([][]float64{{100}, {1, 1, 1, 1}})
	got, err := Summarize(a)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	want := Summary{
		Makespan:          100,
		TaskCountVariance: 4.5,
		LoadVariance:      4608,
		MinLoad:           4,
		MaxLoad:           100,
		AverageLoad:       52,
		AverageTaskSize:   20.8,
		MinToAverage:      1 - 4.0/52,
		MinToMax:          0.96,
	}
	if !cmp.Equal(got, want, cmpopts.EquateApprox(0, 1e-9)) {
		t.Errorf("-want/+got: \n%s", cmp.Diff(want, got))
	}

	if _, err := Summarize(machine.New(3)); !errors.Is(err, ErrPrecondition) {
		t.Errorf("Summarize() without tasks = %v; want ErrPrecondition", err)
	}
}
