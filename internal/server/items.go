package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/retroboard/internal/board"
	"github.com/user/retroboard/internal/types"
)

type appendItemRequest struct {
	Category string `json:"category"`
	Text     string `json:"text" validate:"required,max=2000"`
}

type appendItemResponse struct {
	Success bool         `json:"success"`
	ID      types.ItemID `json:"id"`
	Item    *types.Item  `json:"item"`
}

type voteRequest struct {
	Action string `json:"action" validate:"required,oneof=up down"`
}

type voteResponse struct {
	Success bool `json:"success"`
	Votes   int  `json:"votes"`
}

type editRequest struct {
	NewText string `json:"newText" validate:"required,max=2000"`
}

type moveRequest struct {
	NewCategory string `json:"newCategory"`
}

type reorderRequest struct {
	NewOrder []types.ItemID `json:"newOrder" validate:"required"`
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.registry.Items(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAppendItem(w http.ResponseWriter, r *http.Request) {
	var req appendItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	item, err := s.registry.AppendItem(r.Context(), sessionFrom(r), req.Category, req.Text)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, appendItemResponse{Success: true, ID: item.ID, Item: item})
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var req voteRequest
	if err := decode(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	dir, err := board.ParseDirection(req.Action)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	votes, err := s.registry.Vote(r.Context(), sessionFrom(r), id, dir)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, voteResponse{Success: true, Votes: votes})
}

func (s *Server) handleEditItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var req editRequest
	if err := decode(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.registry.EditItem(r.Context(), sessionFrom(r), id, req.NewText); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.registry.DeleteItem(r.Context(), sessionFrom(r), id); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemID(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var req moveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.registry.MoveItem(r.Context(), sessionFrom(r), id, req.NewCategory); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	category := chi.URLParam(r, "category")
	if err := s.registry.Reorder(r.Context(), sessionFrom(r), category, req.NewOrder); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
