package http

import (
	"net/http"

	"crowdgit/internal/platform/net/http/bind"
)

func reply(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}

// Call adapts a handler that reads nothing but the request
func Call(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response { return reply(fn(r)) })
}

// JSONHandler decodes and validates a JSON body into T before calling fn
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return reply(fn(r, in))
	})
}

// QueryHandler binds and validates query parameters into T before calling fn
func QueryHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.Query[T](r)
		if err != nil {
			return Error(err)
		}
		return reply(fn(r, in))
	})
}

// Get mounts a body-less handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) { r.Get(path, Call(h)) }

// GetQuery mounts a query-bound handler under GET
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Get(path, QueryHandler(h))
}

// PostJSON mounts a JSON handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSONHandler(h))
}
