// Package modkit provides module wiring and the shared deps modules are built from
package modkit

import (
	"reflect"

	"crowdgit/internal/platform/config"
	"crowdgit/internal/platform/logger"
	phttp "crowdgit/internal/platform/net/http"
	"crowdgit/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// PG and CH are nil when their stores are disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  store.TxRunner
	CH  store.Clickhouse
}

// Module is the common surface for modules that can mount routes and expose ports
type Module interface {
	// MountRoutes mounts HTTP routes; headless modules leave it empty
	MountRoutes(r phttp.Router)
	// Ports returns a module specific port set for cross wiring
	Ports() any
	Name() string
}

// PortsOf pulls an interface T out of a module's Ports() bundle
// it returns ok=false if no field/value in Ports() implements T
func PortsOf[T any](m Module) (t T, ok bool) {
	p := m.Ports()
	if p == nil {
		return t, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return t, false
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanInterface() || (f.Kind() == reflect.Interface && f.IsNil()) {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return t, false
}

// MustPortsOf panics with the module name when T is missing
func MustPortsOf[T any](m Module) T {
	if v, ok := PortsOf[T](m); ok {
		return v
	}
	panic("modkit: requested port not found on module " + m.Name())
}
