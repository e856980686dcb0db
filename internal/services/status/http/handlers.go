// Package http mounts the status endpoints
package http

import (
	stdhttp "net/http"

	phttp "crowdgit/internal/platform/net/http"
	"crowdgit/internal/services/status/domain"
	"crowdgit/internal/services/status/service"
)

type handlers struct{ svc *service.Service }

// Register mounts the status routes on r
func Register(r phttp.Router, s *service.Service) {
	h := &handlers{svc: s}

	phttp.Get(r, "/", h.hello)
	phttp.GetQuery(r, "/stats", h.stats)
	phttp.GetQuery(r, "/user-by-email", h.userByEmail)
	phttp.GetQuery(r, "/reonboard", h.reonboard)
}

func (h *handlers) hello(r *stdhttp.Request) (any, error) {
	return h.svc.Hello(r.Context()), nil
}

func (h *handlers) stats(r *stdhttp.Request, in domain.RemoteInput) (any, error) {
	return h.svc.Stats(r.Context(), in)
}

func (h *handlers) userByEmail(r *stdhttp.Request, in domain.UserInput) (any, error) {
	return h.svc.UserByEmail(r.Context(), in)
}

func (h *handlers) reonboard(r *stdhttp.Request, in domain.RemoteInput) (any, error) {
	out, err := h.svc.Reonboard(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return phttp.Accepted(out), nil
}
