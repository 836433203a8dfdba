package middleware

import (
	"net/http"
	"runtime/debug"

	"geo_hierarchy/logger"
	"geo_hierarchy/utils"
)

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logger.Log.Errorw("panic recovered",
					"request_id", RequestID(r.Context()),
					"panic", err,
					"stack", string(debug.Stack()),
				)
				utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
