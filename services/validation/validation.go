// Package validation wraps one go-playground validator configured to report
// fields by their JSON names.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates s and returns a field -> message map, empty when s is
// valid.
func Struct(s any) map[string]string {
	errs := make(map[string]string)

	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["body"] = err.Error()
		return errs
	}
	for _, fe := range fieldErrs {
		errs[fieldPath(fe)] = message(fe)
	}
	return errs
}

// fieldPath drops the top-level struct name: "QuestionInput.answers[0].answerBody"
// becomes "answers[0].answerBody".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s!", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s!", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s!", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more!", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less!", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s!", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address!", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid!", fe.Field())
	}
}

// First returns one message from errs in a stable order, for places that
// report a single string.
func First(errs map[string]string) string {
	best := ""
	for field := range errs {
		if best == "" || field < best {
			best = field
		}
	}
	if best == "" {
		return ""
	}
	return best + ": " + errs[best]
}
