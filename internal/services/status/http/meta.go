package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"crowdgit/internal/core/version"
	phttp "crowdgit/internal/platform/net/http"
	"crowdgit/internal/platform/store"
)

// MetaDeps are the meta handler dependencies; nil stores are reported as skipped
type MetaDeps struct {
	StartedAt time.Time
	PG        store.Pinger
	CH        store.Pinger
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail skipped
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Uptime int64        `json:"uptime"`
}

type meta struct{ deps MetaDeps }

// RegisterMeta mounts /version and /ready
func RegisterMeta(r phttp.Router, d MetaDeps) {
	m := &meta{deps: d}
	phttp.Get(r, "/version", func(*stdhttp.Request) (any, error) { return version.Info(), nil })
	phttp.Get(r, "/ready", m.ready)
}

func (m *meta) ready(r *stdhttp.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	check := func(name string, p store.Pinger) ReadyCheck {
		if p == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if err := p.Ping(ctx); err != nil {
			return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
		}
		return ReadyCheck{Name: name, Status: "ok"}
	}

	out := ReadyResponse{
		Status: "ok",
		Checks: []ReadyCheck{check("pg", m.deps.PG), check("ch", m.deps.CH)},
		Uptime: int64(time.Since(m.deps.StartedAt) / time.Second),
	}
	for _, c := range out.Checks {
		if c.Status == "fail" {
			out.Status = "fail"
		}
	}
	return out, nil
}
