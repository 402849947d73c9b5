package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"casedesk/internal/httputil"
)

// Recovery answers a panicking handler with a 500 problem document. It runs
// inside RequestLogger so the log line and the response share a request id.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer recoverPanic(logger, w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func recoverPanic(logger *slog.Logger, w http.ResponseWriter, r *http.Request) {
	v := recover()
	if v == nil {
		return
	}
	// net/http aborts the response silently on this value
	if v == http.ErrAbortHandler {
		panic(v)
	}

	logger.Error("handler panicked",
		"panic", fmt.Sprint(v),
		"request_id", httputil.GetRequestID(r),
		"method", r.Method,
		"path", r.URL.Path,
		"stack", string(debug.Stack()),
	)
	httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
}
