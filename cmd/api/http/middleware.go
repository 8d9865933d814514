package http

import (
	"net/http"
	"time"

	"github.com/books-catalog/cmd/api/book"
	"github.com/books-catalog/cmd/api/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

type middleware func(http.Handler) http.Handler

// chain wraps h so that the first middleware is the outermost one.
func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

/* Reuses the X-Request-ID sent by the client or generates one, echoes it back,
and stores a logger carrying it in the request context. */
func requestID(base *zap.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			ctx := logger.WithContext(r.Context(), base.With(zap.String("request.id", id)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

/* Logs one line per request once it is served. */
func requestLogging(base *zap.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.FromContext(r.Context(), base).Info(
				"request",
				zap.String("request.method", r.Method),
				zap.String("request.path", r.URL.Path),
				zap.Int("response.status", rec.status),
				zap.Duration("request.duration", time.Since(start)),
			)
		})
	}
}

/* Turns a panic in a handler into a 500 JSON error with an error log. */
func panicRecovery(base *zap.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log := logger.FromContext(r.Context(), base)
					log.Error("panic occurred", zap.Any("error", err))
					responseJSON(w, log, http.StatusInternalServerError, book.ErrResponseInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
