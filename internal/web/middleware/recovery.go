package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/metaed-lang/metaed/internal/web/response"
)

// Recovery turns a handler panic into a JSON 500 and logs it with a stack trace.
func Recovery(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.String("panic", fmt.Sprint(rec)),
					zap.Stack("stack"))

				response.Error(w, http.StatusInternalServerError, "An unexpected error occurred", "")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
