package middleware

import (
	"net/http"
	"time"

	"crowdgit/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow raises requests taking at least Slow to warn; 0 disables it
	Slow time.Duration

	// Quiet paths log at debug, eg load balancer probes
	Quiet []string
}

// AccessLog puts the request id on the context for logger.C and writes one line per request
// 5xx responses log at error, slow ones at warn
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	quiet := make(map[string]bool, len(opt.Quiet))
	for _, p := range opt.Quiet {
		quiet[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithRequest(r.Context(), chimw.GetReqID(r.Context()))
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))
			elapsed := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.C(ctx)
			lvl := zerolog.InfoLevel
			switch {
			case status >= http.StatusInternalServerError:
				lvl = zerolog.ErrorLevel
			case opt.Slow > 0 && elapsed >= opt.Slow:
				lvl = zerolog.WarnLevel
			case quiet[r.URL.Path]:
				lvl = zerolog.DebugLevel
			}
			log.WithLevel(lvl).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", elapsed).
				Msg("request done")
		})
	}
}
