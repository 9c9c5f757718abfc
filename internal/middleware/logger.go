package middleware

import (
	"context"
	"log"
	"net/http"
	"time"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

type requestInfoKey struct{}

// requestInfo is filled in by handlers further down the chain so the
// access line can name who made the request.
type requestInfo struct {
	role   string
	userID string
}

// Annotate records the authorized role and user of the current request.
// It does nothing outside Logger.
func Annotate(ctx context.Context, role, userID string) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.role, info.userID = role, userID
	}
}

// Logger prints "METHOD path status duration" for every request, followed
// by "role=... user=..." once the session gate has authorized it.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		info := &requestInfo{}
		next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)))

		elapsed := time.Since(start).Round(time.Millisecond)
		if info.role == "" {
			log.Printf("%s %s %d %s", r.Method, r.URL.Path, sw.status, elapsed)
			return
		}
		log.Printf("%s %s %d %s role=%s user=%s", r.Method, r.URL.Path, sw.status, elapsed, info.role, info.userID)
	})
}
