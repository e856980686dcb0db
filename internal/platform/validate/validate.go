// Package validate holds the process-wide struct validator with english messages
// keyed by json field names
package validate

import (
	stderrs "errors"
	"reflect"
	"strings"
	"sync"

	perr "crowdgit/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Svc bundles the validator and its translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once sync.Once
	svc  *Svc
)

// Get returns the singleton, building it on first use
func Get() *Svc {
	once.Do(func() {
		enLoc := en.New()
		trans, _ := ut.New(enLoc, enLoc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		registerShort(v, trans, "min", "{0} must be at least {1}")
		registerShort(v, trans, "max", "{0} must be at most {1}")

		svc = &Svc{Validator: v, Translator: trans}
	})
	return svc
}

// jsonName reports fields by their json tag so messages match the wire names
func jsonName(fld reflect.StructField) string {
	tag := fld.Tag.Get("json")
	if tag == "-" || tag == "" {
		return fld.Name
	}
	if i := strings.IndexByte(tag, ','); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

// Struct validates v and maps the first failure onto a perr error of the given code
// with the offending json field attached
func Struct(v any, code perr.ErrorCode) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.Wrap(err, code, msg), field)
}

// FieldAndMessage returns the first failing field and its translated message
func FieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var inv *validator.InvalidValidationError
	if stderrs.As(err, &inv) {
		return "", inv.Error()
	}
	var verrs validator.ValidationErrors
	if stderrs.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	return "", err.Error()
}

func registerShort(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
