package telemetry

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	tallyprom "github.com/uber-go/tally/v4/prometheus"
)

const (
	NoneBackend       = "none"
	PrometheusBackend = "prometheus"
)

// InitScope builds the root metrics scope for backend. For the prometheus
// backend the returned handler serves the scrape endpoint; it is nil
// otherwise.
func InitScope(backend, prefix string, flushInterval time.Duration) (tally.Scope, io.Closer, http.Handler, error) {
	switch backend {
	case PrometheusBackend:
		// tally panics on "-" in prometheus metric names.
		prefix = strings.ReplaceAll(prefix, "-", "_")
		registry := prometheus.NewRegistry()
		reporter := tallyprom.NewReporter(tallyprom.Options{Registerer: registry})
		scope, closer := tally.NewRootScope(tally.ScopeOptions{
			Prefix:         prefix,
			CachedReporter: reporter,
			Separator:      "_",
		}, flushInterval)
		log.Info("Setting up prometheus metrics handler")
		return scope, closer, reporter.HTTPHandler(), nil
	case NoneBackend, "":
		log.Warn("No metrics backend configured, metrics are discarded")
		scope, closer := tally.NewRootScope(tally.ScopeOptions{
			Prefix:   prefix,
			Reporter: tally.NullStatsReporter,
		}, flushInterval)
		return scope, closer, nil, nil
	default:
		return nil, nil, nil, errors.Errorf("unknown metrics backend %q", backend)
	}
}
