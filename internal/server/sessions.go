package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/retroboard/internal/types"
)

const defaultEventLimit = 200

type createSessionRequest struct {
	Name string `json:"name" validate:"max=200"`
}

type sessionResponse struct {
	*types.Session
	Timer types.TimerView `json:"timer"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	// An empty body means a default name.
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	sess, err := s.registry.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := sessionFrom(r)
	sess, timer, err := s.registry.GetWithTimer(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, Timer: timer})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}
	events, err := s.registry.Events(r.Context(), sessionFrom(r), limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleAdminList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.registry.List(r.Context(), r.Header.Get(AdminHeader))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	id := types.SessionID(chi.URLParam(r, "sid"))
	if err := s.registry.Delete(r.Context(), id, r.Header.Get(AdminHeader)); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
