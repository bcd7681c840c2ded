package worker

import (
	"context"
	"sync"
	"time"

	"github.com/MarouaneBouaricha/ehamm/internal/metrics"
	"github.com/MarouaneBouaricha/ehamm/internal/report"
	"github.com/MarouaneBouaricha/ehamm/internal/scheduler"
	"github.com/MarouaneBouaricha/ehamm/internal/store"
	"github.com/MarouaneBouaricha/ehamm/internal/task"

	"github.com/golang-collections/collections/queue"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
)

const (
	DefaultInterval    = 10 * time.Second
	DefaultMaxTasks    = 10000
	DefaultMaxMachines = 1000
)

// ErrDuplicateRequest is returned for a request ID this worker has already
// queued, run or stored.
var ErrDuplicateRequest = errors.New("duplicate request")

// Status is the externally visible state of a request.
type Status struct {
	ID    uuid.UUID `json:"id"`
	State string    `json:"state"`
	Error string    `json:"error,omitempty"`
}

// Worker runs scheduling requests one at a time: assign, summarise,
// rebalance, summarise, store. Requests either run synchronously through
// Run or are queued with AddRequest and drained by RunRequests.
type Worker struct {
	Name       string
	Db         store.Store
	Rebalancer *scheduler.Rebalancer
	Interval   time.Duration

	// MaxTasks and MaxMachines bound a single request. Zero disables the
	// check.
	MaxTasks    int
	MaxMachines int

	mu      sync.Mutex
	queue   *queue.Queue
	states  map[uuid.UUID]State
	errs    map[uuid.UUID]string
	metrics *Metrics
}

func New(name string, db store.Store, scope tally.Scope) *Worker {
	if scope == nil {
		scope = tally.NoopScope
	}
	return &Worker{
		Name:        name,
		Db:          db,
		Rebalancer:  scheduler.NewRebalancer(),
		Interval:    DefaultInterval,
		MaxTasks:    DefaultMaxTasks,
		MaxMachines: DefaultMaxMachines,
		queue:       queue.New(),
		states:      make(map[uuid.UUID]State),
		errs:        make(map[uuid.UUID]string),
		metrics:     NewMetrics(scope.SubScope("worker")),
	}
}

// AddRequest queues r and returns it with an ID assigned. A request whose
// ID is already known is rejected with ErrDuplicateRequest.
func (w *Worker) AddRequest(r report.Request) (report.Request, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.states[r.ID]; ok || w.stored(r.ID) {
		return r, errors.Wrapf(ErrDuplicateRequest, "request %s", r.ID)
	}
	w.queue.Enqueue(r)
	w.states[r.ID] = Pending
	w.metrics.QueueDepth.Update(float64(w.queue.Len()))
	log.WithField("request", r.ID).Info("Added request to pending queue")
	return r, nil
}

func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queue.Len()
}

// RunRequests drains the queue every Interval until ctx is done.
func (w *Worker) RunRequests(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		n := w.ProcessRequests()
		if n == 0 {
			log.Debug("No requests to process currently")
		}
		select {
		case <-ctx.Done():
			log.WithField("worker", w.Name).Info("Stopping request processing")
			return
		case <-ticker.C:
		}
	}
}

// ProcessRequests runs every queued request and returns how many ran.
func (w *Worker) ProcessRequests() int {
	n := 0
	for {
		r, ok := w.dequeue()
		if !ok {
			return n
		}
		n++
		if _, err := w.Run(r); err != nil {
			log.WithError(err).WithField("request", r.ID).Error("Error running request")
		}
	}
}

func (w *Worker) dequeue() (report.Request, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e := w.queue.Dequeue()
	w.metrics.QueueDepth.Update(float64(w.queue.Len()))
	if e == nil {
		return report.Request{}, false
	}
	return e.(report.Request), true
}

// Run executes r synchronously. Any failure aborts the run and nothing is
// stored. Only a new or queued request can run; any other known ID is
// rejected with ErrDuplicateRequest.
func (w *Worker) Run(r report.Request) (*report.Report, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if err := w.transition(r.ID, Running, nil); err != nil {
		return nil, err
	}

	stopwatch := w.metrics.RunDuration.Start()
	rep, err := w.run(r)
	stopwatch.Stop()
	if err != nil {
		w.metrics.RunFail.Inc(1)
		w.finish(r.ID, Failed, err)
		return nil, err
	}

	w.metrics.RunSuccess.Inc(1)
	w.metrics.Migrations.Inc(int64(len(rep.Migrations)))
	w.metrics.InitialMakespan.Update(rep.Initial.Summary.Makespan)
	w.metrics.RebalancedMakespan.Update(rep.Rebalanced.Summary.Makespan)
	w.finish(r.ID, Completed, nil)

	log.WithFields(log.Fields{
		"request":    r.ID,
		"scheduler":  rep.Request.Scheduler,
		"tasks":      rep.TaskCount,
		"machines":   r.Machines,
		"makespan":   rep.Initial.Summary.Makespan,
		"rebalanced": rep.Rebalanced.Summary.Makespan,
		"migrations": len(rep.Migrations),
	}).Info("Finished run")
	return rep, nil
}

func (w *Worker) run(r report.Request) (*report.Report, error) {
	start := time.Now().UTC()

	assigner, err := scheduler.New(r.Scheduler)
	if err != nil {
		return nil, err
	}
	r.Scheduler = assigner.Name()

	if err := w.checkLimits(r); err != nil {
		return nil, err
	}

	tasks := r.Tasks
	if len(tasks) == 0 {
		tasks, err = task.Generate(r.Generate)
		if err != nil {
			return nil, errors.Wrap(scheduler.ErrInvalidConfiguration, err.Error())
		}
	}

	initial, err := assigner.Assign(tasks, r.Machines)
	if err != nil {
		return nil, errors.Wrapf(err, "%s assignment", assigner.Name())
	}
	before, err := metrics.Summarize(initial)
	if err != nil {
		return nil, errors.Wrap(err, "initial assignment")
	}

	rebalanced, migrations, err := w.Rebalancer.RebalanceWithTrace(initial)
	if err != nil {
		return nil, errors.Wrap(err, "rebalancing")
	}
	after, err := metrics.Summarize(rebalanced)
	if err != nil {
		return nil, errors.Wrap(err, "rebalanced assignment")
	}

	rep := &report.Report{
		ID:         r.ID,
		Request:    r,
		TaskCount:  len(tasks),
		Initial:    report.Outcome{Assignment: initial, Summary: before},
		Rebalanced: report.Outcome{Assignment: rebalanced, Summary: after},
		Migrations: migrations,
		StartTime:  start,
		FinishTime: time.Now().UTC(),
	}
	if err := w.Db.Put(rep.ID.String(), rep); err != nil {
		return nil, errors.Wrapf(err, "storing report %s", rep.ID)
	}
	return rep, nil
}

// checkLimits rejects requests larger than the worker accepts. Assignment
// cost grows with the square of the task count.
func (w *Worker) checkLimits(r report.Request) error {
	if w.MaxMachines > 0 && r.Machines > w.MaxMachines {
		return errors.Wrapf(scheduler.ErrInvalidConfiguration,
			"machine count %d exceeds the limit of %d", r.Machines, w.MaxMachines)
	}
	count := len(r.Tasks)
	if count == 0 {
		count = r.Generate.Count
	}
	if w.MaxTasks > 0 && count > w.MaxTasks {
		return errors.Wrapf(scheduler.ErrInvalidConfiguration,
			"task count %d exceeds the limit of %d", count, w.MaxTasks)
	}
	return nil
}

// transition moves request id to dst. IDs never seen before start out
// Pending unless a report for them is already stored.
func (w *Worker) transition(id uuid.UUID, dst State, cause error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	src, ok := w.states[id]
	if !ok {
		src = Pending
		if w.stored(id) {
			src = Completed
		}
	}
	if !ValidStateTransition(src, dst) {
		log.WithFields(log.Fields{
			"request": id,
			"from":    src.String(),
			"to":      dst.String(),
		}).Warn("Invalid request state transition")
		if dst == Running {
			return errors.Wrapf(ErrDuplicateRequest, "request %s is already %s", id, src)
		}
		return errors.Errorf("request %s cannot go from %s to %s", id, src, dst)
	}
	w.states[id] = dst
	if cause != nil {
		w.errs[id] = cause.Error()
	}
	return nil
}

func (w *Worker) finish(id uuid.UUID, dst State, cause error) {
	if err := w.transition(id, dst, cause); err != nil {
		log.WithError(err).Error("Error updating request state")
	}
}

func (w *Worker) stored(id uuid.UUID) bool {
	_, err := w.Db.Get(id.String())
	return err == nil
}

// Status reports the state of a request known to this worker.
func (w *Worker) Status(id uuid.UUID) (Status, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.states[id]
	if !ok {
		return Status{}, false
	}
	return Status{ID: id, State: s.String(), Error: w.errs[id]}, true
}

func (w *Worker) GetReports() ([]*report.Report, error) {
	list, err := w.Db.List()
	if err != nil {
		return nil, errors.Wrap(err, "listing reports")
	}
	return list.([]*report.Report), nil
}

func (w *Worker) GetReport(id uuid.UUID) (*report.Report, error) {
	r, err := w.Db.Get(id.String())
	if err != nil {
		return nil, err
	}
	return r.(*report.Report), nil
}
