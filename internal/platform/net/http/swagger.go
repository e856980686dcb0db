package http

import (
	stdhttp "net/http"

	perr "crowdgit/internal/platform/errors"

	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag/v2"
)

// MountSwagger serves the swag instance named instance at /docs/doc.json
// and the UI under /docs when enabled
func MountSwagger(r Router, enabled bool, instance string) {
	if !enabled {
		return
	}
	r.Get("/docs", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		stdhttp.Redirect(w, req, "/docs/", stdhttp.StatusPermanentRedirect)
	})
	r.Get("/docs/doc.json", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		doc, err := swag.ReadDoc(instance)
		if err != nil {
			RespondError(w, req, perr.Wrapf(err, perr.ErrorCodeNotFound, "no api document %q", instance))
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(doc))
	})
	r.Handle("/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName(instance),
		httpSwagger.URL("/docs/doc.json"),
	))
}
