package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/user/retroboard/internal/board"
	"github.com/user/retroboard/internal/types"
)

type ctxKey int

const sessionKey ctxKey = iota

// requestLogger logs one line per request once the response is written.
func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

// sessionID rejects malformed session ids before they reach the registry and
// stores the parsed id on the request context.
func (s *Server) sessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "sid")
		if !types.ValidSessionID(raw) {
			writeError(w, s.logger, &board.Error{Kind: board.KindNotFound, Op: "http", Msg: "session " + raw + " not found"})
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, types.SessionID(raw))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) types.SessionID {
	id, _ := r.Context().Value(sessionKey).(types.SessionID)
	return id
}
