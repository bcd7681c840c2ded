package api

import (
	"encoding/json"
	"net/http"

	"github.com/MarouaneBouaricha/ehamm/internal/metrics"
	"github.com/MarouaneBouaricha/ehamm/internal/report"
	"github.com/MarouaneBouaricha/ehamm/internal/scheduler"
	"github.com/MarouaneBouaricha/ehamm/internal/store"
	"github.com/MarouaneBouaricha/ehamm/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func (a *Api) StartSimulationHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}
	if _, err := scheduler.New(req.Scheduler); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := a.Worker.AddRequest(req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, req)
}

func (a *Api) RunSimulationHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}

	rep, err := a.Worker.Run(req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

func (a *Api) GetReportsHandler(w http.ResponseWriter, r *http.Request) {
	reports, err := a.Worker.GetReports()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (a *Api) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	rep, err := a.Worker.GetReport(id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (a *Api) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	status, found := a.Worker.Status(id)
	if !found {
		writeError(w, http.StatusNotFound, "no request with ID "+id.String())
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (a *Api) GetSchedulersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scheduler.Names())
}

func (a *Api) decodeRequest(w http.ResponseWriter, r *http.Request) (report.Request, bool) {
	if a.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.MaxBodyBytes)
	}
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()

	req := report.Request{}
	if err := d.Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		msg := "Error unmarshalling body: " + err.Error()
		log.Print(msg)
		writeError(w, status, msg)
		return report.Request{}, false
	}
	return req, true
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid ID: "+err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// statusFor maps an error to the HTTP status it is reported with. Invalid
// input is never retried by the caller, so it is a client error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, worker.ErrDuplicateRequest):
		return http.StatusConflict
	case errors.Is(err, scheduler.ErrInvalidConfiguration),
		errors.Is(err, scheduler.ErrDegenerateState),
		errors.Is(err, scheduler.ErrUnknownScheduler),
		errors.Is(err, metrics.ErrPrecondition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrResponse{HTTPStatusCode: status, Message: msg})
}
