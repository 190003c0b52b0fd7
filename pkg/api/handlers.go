package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/ssargent/progress/pkg/model"
	"github.com/ssargent/progress/pkg/store"
)

// Task listing filters
const (
	stateAll     = "all"
	statePending = "pending"
	stateDone    = "done"
)

// Server holds the API server state
type Server struct {
	open    StoreOpener
	config  ServerConfig
	metrics *Metrics
	log     logrus.FieldLogger
}

// NewServer creates a new API server
func NewServer(open StoreOpener, config ServerConfig, metrics *Metrics, logger logrus.FieldLogger) *Server {
	return &Server{
		open:    open,
		config:  config,
		metrics: metrics,
		log:     logger,
	}
}

// loadStore opens the store for one request and writes the error response on failure
func (s *Server) loadStore(w http.ResponseWriter) (*store.Store, bool) {
	start := time.Now()
	st, err := s.open()
	s.metrics.RecordStoreLoad(err == nil, time.Since(start))
	if err != nil {
		s.log.WithError(err).Error("failed to load store")
		sendError(w, "Failed to load store", http.StatusInternalServerError)
		return nil, false
	}
	return st, true
}

// handleHealth reports whether the store file can be loaded
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st, err := s.open()
	if err != nil {
		s.metrics.RecordHealthCheck(false)
		s.log.WithError(err).Warn("health check failed")
		sendError(w, "Store unavailable", http.StatusServiceUnavailable)
		return
	}

	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, HealthResponse{
		Status:   "healthy",
		Store:    st.Location(),
		Tasks:    len(st.Tasks()),
		NextTask: model.FormatTaskRef(st.Metadata().LastTaskID),
	})
}

// handleListTasks lists tasks in store order, optionally filtered by ?state=pending|done
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		state = stateAll
	}
	if state != stateAll && state != statePending && state != stateDone {
		sendError(w, "state must be one of all, pending, done", http.StatusBadRequest)
		return
	}

	st, ok := s.loadStore(w)
	if !ok {
		return
	}

	tasks := []model.Task{}
	for _, t := range st.Tasks() {
		switch {
		case state == statePending && t.Done:
			continue
		case state == stateDone && !t.Done:
			continue
		}
		tasks = append(tasks, t)
	}

	sendSuccess(w, TaskList{State: state, Count: len(tasks), Tasks: tasks})
}

// handleGetTask returns a single task by its TSK-<n> reference
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	id, err := model.ParseTaskRef(ref)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, ok := s.loadStore(w)
	if !ok {
		return
	}

	task, found := st.FindTask(id)
	if !found {
		sendError(w, model.FormatTaskRef(id)+": "+store.ErrTaskNotFound.Error(), http.StatusNotFound)
		return
	}

	sendSuccess(w, task)
}

// handleSummary returns the full day report
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadStore(w)
	if !ok {
		return
	}

	sum := st.Summarize()
	s.metrics.UpdateTaskStats(sum)
	sendSuccess(w, sum)
}

// handleBasicSummary returns the pending counts for the short status line
func (s *Server) handleBasicSummary(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadStore(w)
	if !ok {
		return
	}

	sendSuccess(w, st.SummarizeBasic())
}

// refreshTaskMetrics keeps the task gauges current for scrapers that never call /summary
func (s *Server) refreshTaskMetrics() error {
	start := time.Now()
	st, err := s.open()
	s.metrics.RecordStoreLoad(err == nil, time.Since(start))
	if err != nil {
		return err
	}
	s.metrics.UpdateTaskStats(st.Summarize())
	return nil
}
