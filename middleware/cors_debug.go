package middleware

import (
	"net/http"

	"geo_hierarchy/logger"
)

// CORSDebugMiddleware logs the CORS-relevant parts of every request and
// response. It is only installed when CORS_DEBUG is set.
func CORSDebugMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Log.Debugw("cors request",
			"origin", r.Header.Get("Origin"),
			"method", r.Method,
			"preflight", r.Method == http.MethodOptions,
			"request_method", r.Header.Get("Access-Control-Request-Method"),
			"request_headers", r.Header.Get("Access-Control-Request-Headers"),
		)

		next.ServeHTTP(w, r)

		logger.Log.Debugw("cors response",
			"allow_origin", w.Header().Get("Access-Control-Allow-Origin"),
			"allow_methods", w.Header().Get("Access-Control-Allow-Methods"),
			"vary", w.Header().Values("Vary"),
		)
	})
}
