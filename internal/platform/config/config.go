// Package config reads service settings from environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"crowdgit/internal/platform/logger"
)

// Conf is a namespaced view over environment variables (e.g. "CORE_INGEST_", "GITHUB_")
// New() reads unprefixed keys; Prefix narrows a Conf to one module
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key returns the fully-qualified env var name for k
func (c Conf) Key(k string) string { return c.prefix + k }

func (c Conf) lookup(key string) string { return strings.TrimSpace(os.Getenv(c.Key(key))) }

// fail panics through the logger so misconfiguration surfaces with the offending key
func (c Conf) fail(key, value, msg string) {
	ev := logger.Get().Panic().Str("key", c.Key(key))
	if value != "" {
		ev = ev.Str("value", value)
	}
	ev.Msg(msg)
}

// warnDefault records that an unparsable value fell back to its default
func (c Conf) warnDefault(key, value string, def any) {
	logger.Get().Warn().Str("key", c.Key(key)).Str("value", value).Interface("default", def).
		Msg("invalid value; using default")
}

// MustString panics if the given key is missing or empty
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		c.fail(key, "", "missing required env")
	}
	return v
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def if missing; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		c.warnDefault(key, s, def)
		return def
	}
	return v
}

// MayBool returns the value or def if missing; logs and returns def if invalid
func (c Conf) MayBool(key string, def bool) bool {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		c.warnDefault(key, s, def)
		return def
	}
	return v
}

// MayDuration returns the value or def if missing; logs and returns def if invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		c.warnDefault(key, s, def.String())
		return def
	}
	return d
}

// MayPort returns a listen addr like ":4000", def when missing; panics outside 1..65535
func (c Conf) MayPort(key string, def int) string {
	s := c.lookup(key)
	if s == "" {
		return ":" + strconv.Itoa(def)
	}
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		c.fail(key, s, "invalid TCP port; expected 1..65535")
	}
	return ":" + s
}

// MayCSV splits a comma-separated value, dropping blanks; def if missing or all blank
func (c Conf) MayCSV(key string, def []string) []string {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the lower-cased value when it is one of allowed, def when missing; panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(a)
		}
	}
	logger.Get().Panic().Str("key", c.Key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
