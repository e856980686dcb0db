package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perr "crowdgit/internal/platform/errors"
	phttp "crowdgit/internal/platform/net/http"
)

// BearerToken extracts the token from an Authorization header, case-insensitive on the scheme
func BearerToken(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(authz[len(prefix):])
	if raw == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	return raw, nil
}

// StaticBearer admits requests whose bearer token equals token
// An empty token rejects everything rather than opening the API
func StaticBearer(token string) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, err := BearerToken(r)
			if err == nil && (len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1) {
				err = perr.Unauthorizedf("invalid bearer token")
			}
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="crowdgit"`)
				phttp.RespondError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
