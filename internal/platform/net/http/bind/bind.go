// Package bind decodes request payloads and validates them with the shared validator
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/platform/logger"
	"crowdgit/internal/platform/validate"

	"github.com/go-playground/validator/v10"
)

// MaxBytes caps request bodies
const MaxBytes = 1 << 20

var jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam

// ParseJSON decodes JSON into T, validates it, and maps failures to project errors
// Unknown fields, empty bodies and trailing data are rejected
func ParseJSON[T any](r *http.Request) (T, error) {
	var zero T
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()

	buf := make([]byte, 1)
	n, _ := r.Body.Read(buf)
	if n == 0 {
		return zero, perr.New(perr.ErrorCodeJSON, "empty body")
	}
	dec := json.NewDecoder(io.LimitReader(io.MultiReader(bytes.NewReader(buf[:n]), r.Body), MaxBytes))
	dec.DisallowUnknownFields()

	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.Wrapf(err, perr.ErrorCodeJSON, "invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		return zero, perr.New(perr.ErrorCodeJSON, "unexpected trailing data")
	}
	return dst, check(dst)
}

// Query fills the string, bool and int fields of T from query parameters named by
// their `query` tag, then validates
func Query[T any](r *http.Request) (T, error) {
	var dst T
	rv := reflect.ValueOf(&dst).Elem()
	if rv.Kind() != reflect.Struct {
		return dst, perr.Internalf("bind: query target must be a struct")
	}
	q := r.URL.Query()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name := rt.Field(i).Tag.Get("query")
		if name == "" || name == "-" || !q.Has(name) {
			continue
		}
		raw := strings.TrimSpace(q.Get(name))
		f := rv.Field(i)
		switch f.Kind() {
		case reflect.String:
			f.SetString(raw)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return dst, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s must be a boolean", name), name)
			}
			f.SetBool(b)
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return dst, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s must be an integer", name), name)
			}
			f.SetInt(n)
		}
	}
	return dst, check(dst)
}

func check(v any) error {
	err := validate.Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(err).Msg("validator internal error")
		return perr.Internalf("validation error")
	}
	field, msg := validate.FieldAndMessage(err)
	return perr.WithField(perr.New(perr.ErrorCodeValidation, msg), field)
}
