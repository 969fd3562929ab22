package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/edgeup/marketplace/internal/infrastructure/redisx"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
	maxIdempotencyKey = 255
)

type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *recordingWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// idempotent replays the stored response for a repeated Idempotency-Key.
// Keys are scoped to the caller and the route. Responses with a 5xx status
// are not stored so the client may retry them.
func (s *Server) idempotent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
		if s.idem == nil || key == "" {
			next.ServeHTTP(w, r)
			return
		}
		if len(key) > maxIdempotencyKey {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "idempotency key too long")
			return
		}
		scope := actorFromContext(r.Context()).UserID.String() + ":" + r.Method + ":" + r.URL.Path
		storeKey := redisx.Key(scope, key)
		ctx := r.Context()

		reserved, err := s.idem.Reserve(ctx, storeKey)
		if err != nil {
			s.logger.Error().Err(err).Msg("idempotency reserve failed")
			respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "idempotency store unavailable")
			return
		}
		if !reserved {
			stored, pending, err := s.idem.Lookup(ctx, storeKey)
			if err != nil {
				s.logger.Error().Err(err).Msg("idempotency lookup failed")
				respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "idempotency store unavailable")
				return
			}
			if stored == nil || pending {
				respondError(w, http.StatusConflict, "IDEMPOTENCY_IN_PROGRESS", "a request with this idempotency key is in progress")
				return
			}
			if stored.ContentType != "" {
				w.Header().Set("Content-Type", stored.ContentType)
			}
			w.Header().Set(replayedHeader, "true")
			w.WriteHeader(stored.Status)
			_, _ = w.Write(stored.Body)
			return
		}

		rec := &recordingWriter{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		// The request context may already be cancelled by the client.
		bg := context.WithoutCancel(ctx)
		if rec.status == 0 || rec.status >= http.StatusInternalServerError {
			if err := s.idem.Release(bg, storeKey); err != nil {
				s.logger.Warn().Err(err).Msg("idempotency release failed")
			}
			return
		}
		if err := s.idem.Save(bg, storeKey, redisx.Response{
			Status:      rec.status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		}); err != nil {
			s.logger.Warn().Err(err).Msg("idempotency save failed")
		}
	})
}
