package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPrometheusScope(t *testing.T) {
	scope, closer, handler, err := InitScope(PrometheusBackend, "ehamm-test", 10*time.Millisecond)
	require.NoError(t, err)
	defer closer.Close()
	require.NotNil(t, handler)

	scope.SubScope("worker").Tagged(map[string]string{"result": "success"}).Counter("runs").Inc(3)

	require.Eventually(t, func() bool {
		return strings.Contains(scrape(t, handler), `ehamm_test_worker_runs{result="success"} 3`)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScopesDoNotShareRegistry(t *testing.T) {
	for i := 0; i < 2; i++ {
		scope, closer, _, err := InitScope(PrometheusBackend, "ehamm", time.Second)
		require.NoError(t, err)
		scope.Counter("runs").Inc(1)
		require.NoError(t, closer.Close())
	}
}

func TestNoneScope(t *testing.T) {
	scope, closer, handler, err := InitScope(NoneBackend, "ehamm", time.Second)
	require.NoError(t, err)
	defer closer.Close()
	assert.Nil(t, handler)
	scope.Counter("runs").Inc(1)
}

func TestUnknownBackend(t *testing.T) {
	_, _, _, err := InitScope("graphite", "ehamm", time.Second)
	assert.Error(t, err)
}
