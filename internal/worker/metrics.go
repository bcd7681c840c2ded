package worker

import (
	"github.com/uber-go/tally/v4"
)

// Metrics contains the instruments updated by the worker.
type Metrics struct {
	// RunSuccess counts runs that produced a stored report.
	RunSuccess tally.Counter

	// RunFail counts runs aborted by invalid input or a store failure.
	RunFail     tally.Counter
	RunDuration tally.Timer

	QueueDepth tally.Gauge

	Migrations tally.Counter
	// InitialMakespan and RebalancedMakespan hold the figures of the last
	// successful run.
	InitialMakespan    tally.Gauge
	RebalancedMakespan tally.Gauge
}

// NewMetrics returns a Metrics rooted below the given tally scope.
func NewMetrics(scope tally.Scope) *Metrics {
	runScope := scope.SubScope("run")
	runSuccessScope := runScope.Tagged(map[string]string{"result": "success"})
	runFailScope := runScope.Tagged(map[string]string{"result": "fail"})
	makespanScope := scope.SubScope("makespan")

	return &Metrics{
		RunSuccess:  runSuccessScope.Counter("count"),
		RunFail:     runFailScope.Counter("count"),
		RunDuration: runScope.Timer("duration"),

		QueueDepth: scope.Gauge("queue_depth"),

		Migrations:         scope.Counter("migrations"),
		InitialMakespan:    makespanScope.Gauge("initial"),
		RebalancedMakespan: makespanScope.Gauge("rebalanced"),
	}
}
