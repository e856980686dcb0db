// Package middleware holds the status API middleware: thin chi adapters plus our own
// auth, access log and panic recovery
package middleware

import (
	"compress/flate"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID attaches or propagates X-Request-ID and stores it on context
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP sets RemoteAddr to the upstream IP based on X-Forwarded-For headers
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// NoCache sets headers to disable client and proxy caching
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// Compress wraps chi's compressor
func Compress(level int) func(http.Handler) http.Handler {
	c := chimw.NewCompressor(level)
	return func(next http.Handler) http.Handler { return c.Handler(next) }
}

// Heartbeat replies 200 on GET path ahead of auth, for load balancer checks
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// CORS wraps go-chi/cors, filling methods and headers when left empty
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	if len(o.AllowedMethods) == 0 {
		o.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(o.AllowedHeaders) == 0 {
		o.AllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}
	}
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: o.AllowedMethods,
		AllowedHeaders: o.AllowedHeaders,
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         o.MaxAge,
	})
}

// Defaults is the baseline stack mounted on the root router
func Defaults(origins []string, slow time.Duration) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RealIP(),
		RequestID(),
		AccessLog(AccessLogOptions{Slow: slow, Quiet: []string{"/health"}}),
		RecoverJSON,
		CORS(CORSOptions{AllowedOrigins: origins}),
		Heartbeat("/health"),
		Timeout(30 * time.Second),
		Compress(flate.BestSpeed),
		NoCache(),
	}
}
