package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"todo/internal/intent"
	"todo/internal/taskstore"
)

type listResponse struct {
	Tasks    []taskstore.Task `json:"tasks"`
	Progress intent.Progress  `json:"progress"`
}

type outcomeResponse struct {
	Task      *taskstore.Task `json:"task,omitempty"`
	Text      string          `json:"text,omitempty"`
	Progress  intent.Progress `json:"progress"`
	Celebrate bool            `json:"celebrate"`
}

type addRequest struct {
	Text string `json:"text"`
}

type toggleRequest struct {
	Completed *bool `json:"completed"`
}

// health handles GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"session": s.dispatcher.Store().Session(),
	})
}

// progress handles GET /progress
func (s *Server) progress(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p := intent.ProgressOf(s.dispatcher.Store())
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, p)
}

// list handles GET /tasks
func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	store := s.dispatcher.Store()
	resp := listResponse{Tasks: store.Tasks(), Progress: intent.ProgressOf(store)}
	s.mu.Unlock()

	if resp.Tasks == nil {
		resp.Tasks = []taskstore.Task{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// add handles POST /tasks
func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "task text required")
		return
	}

	res, ok := s.dispatch(w, intent.Add{Text: req.Text})
	if !ok {
		return
	}
	task := res.Task
	writeJSON(w, http.StatusCreated, s.outcome(res, &task))
}

// toggle handles PATCH /tasks/{id}
func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Completed == nil {
		writeError(w, http.StatusBadRequest, "completed required")
		return
	}

	res, ok := s.dispatch(w, intent.Toggle{ID: id, Completed: *req.Completed})
	if !ok {
		return
	}
	if !res.Changed {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	task, _ := s.lookup(id)
	writeJSON(w, http.StatusOK, s.outcome(res, &task))
}

// edit handles POST /tasks/{id}/edit
func (s *Server) edit(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	task, found := s.lookup(id)
	if !found {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if task.Completed {
		writeError(w, http.StatusConflict, "completed tasks cannot be edited")
		return
	}

	res, ok := s.dispatch(w, intent.Edit{ID: id})
	if !ok {
		return
	}
	if !res.Changed {
		writeError(w, http.StatusConflict, "task cannot be edited")
		return
	}
	writeJSON(w, http.StatusOK, s.outcome(res, nil))
}

// remove handles DELETE /tasks/{id}
func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	res, ok := s.dispatch(w, intent.Delete{ID: id})
	if !ok {
		return
	}
	if !res.Changed {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, s.outcome(res, nil))
}

// dispatch applies in under the store lock. It writes a 500 and returns
// false when the mutation could not be persisted.
func (s *Server) dispatch(w http.ResponseWriter, in intent.Intent) (intent.Outcome, bool) {
	s.mu.Lock()
	res, err := s.dispatcher.Dispatch(in)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("persist failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return res, false
	}
	if res.Celebrate {
		s.logger.Info("all tasks complete")
	}
	return res, true
}

func (s *Server) lookup(id int) (taskstore.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatcher.Store().Get(id)
}

func (s *Server) outcome(res intent.Outcome, task *taskstore.Task) outcomeResponse {
	return outcomeResponse{
		Task:      task,
		Text:      res.Staged,
		Progress:  res.Progress,
		Celebrate: res.Celebrate && s.celebrate,
	}
}

func taskID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
