package server

import (
	"net/http"
)

type startTimerRequest struct {
	Duration int `json:"duration"`
}

func (s *Server) handleTimer(w http.ResponseWriter, r *http.Request) {
	view, err := s.registry.Timer(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	var req startTimerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	view, err := s.registry.StartTimer(r.Context(), sessionFrom(r), req.Duration)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTimerPause(w http.ResponseWriter, r *http.Request) {
	view, err := s.registry.PauseTimer(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTimerResume(w http.ResponseWriter, r *http.Request) {
	view, err := s.registry.ResumeTimer(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTimerReset(w http.ResponseWriter, r *http.Request) {
	view, err := s.registry.ResetTimer(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
