package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/retroboard/internal/export"
)

func (s *Server) handleExportFormat(w http.ResponseWriter, r *http.Request) {
	s.handleExport(chi.URLParam(r, "format"))(w, r)
}

// handleExport renders the session's items in format as a download.
func (s *Server) handleExport(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exp, err := export.NewExporter(format)
		if err != nil {
			writeError(w, s.logger, notFound("export format %q not supported", format))
			return
		}
		items, err := s.registry.Items(r.Context(), sessionFrom(r))
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		var buf bytes.Buffer
		if err := exp.Export(items, &buf); err != nil {
			writeError(w, s.logger, fmt.Errorf("export %s: %w", format, err))
			return
		}
		w.Header().Set("Content-Type", exp.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename()))
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}
