package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/MarouaneBouaricha/ehamm/internal/machine"
	"github.com/MarouaneBouaricha/ehamm/internal/metrics"
	"github.com/MarouaneBouaricha/ehamm/internal/scheduler"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	initial := machine.FromTasks([][]float64{{1, 1, 1, 1, 1, 1}, {5}, {4}})
	rebalanced, migrations, err := scheduler.NewRebalancer().RebalanceWithTrace(initial)
	require.NoError(t, err)

	before, err := metrics.Summarize(initial)
	require.NoError(t, err)
	after, err := metrics.Summarize(rebalanced)
	require.NoError(t, err)

	req := NewRequest(3, scheduler.HAMMName)
	return &Report{
		ID:         uuid.New(),
		Request:    req,
		TaskCount:  8,
		Initial:    Outcome{Assignment: initial, Summary: before},
		Rebalanced: Outcome{Assignment: rebalanced, Summary: after},
		Migrations: migrations,
		StartTime:  time.Now(),
		FinishTime: time.Now(),
	}
}

func TestPrint(t *testing.T) {
	r := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, r, true))
	out := buf.String()

	assert.Contains(t, out, r.ID.String())
	assert.Contains(t, out, "Initial assignment")
	assert.Contains(t, out, "Rebalanced assignment (1 migrations)")
	assert.Contains(t, out, "[4 1]")
	assert.Equal(t, 2, strings.Count(out, "Makespan:"))

	buf.Reset()
	require.NoError(t, Print(&buf, r, false))
	assert.NotContains(t, buf.String(), "SIZES")
}

func TestPrintList(t *testing.T) {
	r := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, PrintList(&buf, []*Report{r}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "MIGRATIONS")
	assert.Contains(t, lines[1], r.ID.String())
	assert.Contains(t, lines[1], "hamm")
}

func TestRestoreAfterDecode(t *testing.T) {
	r := sampleReport(t)
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	decoded.Restore()

	assert.Equal(t, r.Initial.Assignment.Loads(), decoded.Initial.Assignment.Loads())
	assert.Equal(t, r.Rebalanced.Assignment.Loads(), decoded.Rebalanced.Assignment.Loads())
	assert.Equal(t, r.Migrations, decoded.Migrations)
}
