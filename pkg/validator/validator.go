package validator

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return strings.Join(parts, "; ")
}

// Validator checks typed form inputs against their `validate` tags.
type Validator interface {
	Validate(obj interface{}) FieldErrors
}

var messages = map[string]string{
	"required":    "This field is required.",
	"notblank":    "This field is required.",
	"email":       "Invalid email address.",
	"oneof":       "Not a valid choice.",
	"number":      "Not a valid number.",
	"nonnegative": "Must not be negative.",
	"min":         "Value is too short.",
	"max":         "Value is too long.",
}

type validator struct {
	engine *playground.Validate
}

func New() Validator {
	v := playground.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "notblank", func(fl playground.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "number", func(fl playground.FieldLevel) bool {
		_, ok := ParseNumber(fl.Field().String())
		return ok
	})
	mustRegister(v, "nonnegative", func(fl playground.FieldLevel) bool {
		n, ok := ParseNumber(fl.Field().String())
		return !ok || n >= 0
	})

	return &validator{engine: v}
}

func mustRegister(v *playground.Validate, tag string, fn playground.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func (v *validator) Validate(obj interface{}) FieldErrors {
	err := v.engine.Struct(obj)
	if err == nil {
		return nil
	}

	errs, ok := err.(playground.ValidationErrors)
	if !ok {
		return FieldErrors{"_": err.Error()}
	}

	out := make(FieldErrors, len(errs))
	for _, e := range errs {
		if _, seen := out[e.Field()]; seen {
			continue
		}
		msg, ok := messages[e.Tag()]
		if !ok {
			msg = e.Error()
		}
		out[e.Field()] = msg
	}
	return out
}

// ParseNumber parses a finite decimal number, tolerating surrounding spaces.
func ParseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
