package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MarouaneBouaricha/ehamm/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type ErrResponse struct {
	HTTPStatusCode int    `json:"httpStatusCode"`
	Message        string `json:"message"`
}

// DefaultMaxBodyBytes bounds the size of a request body.
const DefaultMaxBodyBytes = 1 << 20

type Api struct {
	Address      string
	Port         int
	Worker       *worker.Worker
	Router       *chi.Mux
	MaxBodyBytes int64
}

func New(address string, port int, w *worker.Worker) *Api {
	a := &Api{Address: address, Port: port, Worker: w, MaxBodyBytes: DefaultMaxBodyBytes}
	a.initRouter()
	return a
}

func (a *Api) initRouter() {
	a.Router = chi.NewRouter()
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.Recoverer)
	a.Router.Route("/simulations", func(r chi.Router) {
		r.Post("/", a.StartSimulationHandler)
		r.Get("/", a.GetReportsHandler)
		r.Post("/run", a.RunSimulationHandler)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.GetReportHandler)
			r.Get("/status", a.GetStatusHandler)
		})
	})
	a.Router.Get("/schedulers", a.GetSchedulersHandler)
}

// HandleMetrics serves the metrics scrape endpoint at /metrics.
func (a *Api) HandleMetrics(h http.Handler) {
	a.Router.Method(http.MethodGet, "/metrics", h)
}

// Start serves the API until ctx is done.
func (a *Api) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.Address, a.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("address", srv.Addr).Info("Starting API")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serving API")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("Shutting down API")
		return errors.Wrap(srv.Shutdown(shutdownCtx), "shutting down API")
	}
}
