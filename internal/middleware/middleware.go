// Package middleware holds the HTTP wrappers shared by every API route.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/internal/logger"
)

type contextKey string

const requestIDKey contextKey = "ether.request_id"

// RequestIDFromContext returns the id assigned by Logger, or "".
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// Logger assigns a request id, recovers panics and logs one line per request.
func Logger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := strings.TrimSpace(r.Header.Get("X-Request-Id"))
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-Id", rid)
			reqLog := logger.WithRequestID(log, rid)

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			defer func() {
				if p := recover(); p != nil {
					reqLog.Error("Panic recovered", "panic", fmt.Sprint(p), "method", r.Method, "path", r.URL.Path)
					if rec.status == 0 {
						w.Header().Set("Content-Type", "application/json")
						w.WriteHeader(http.StatusInternalServerError)
						_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
					}
					return
				}
				reqLog.Info("Request handled",
					"method", r.Method,
					"path", r.URL.Path,
					"status", rec.status,
					"bytes", rec.bytes,
					"duration", time.Since(start))
			}()

			ctx := context.WithValue(r.Context(), requestIDKey, rid)
			next.ServeHTTP(rec, r.WithContext(ctx))
		})
	}
}
