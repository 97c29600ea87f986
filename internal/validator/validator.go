// Package validator collects per-field input errors keyed by JSON name.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

var validate = newPlayground()

func newPlayground() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

var messages = map[string]string{
	"required": "must be provided",
	"email":    "must be a valid email address",
	"max":      "must be at most %s characters long",
	"min":      "must be at least %s characters long",
}

type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{
		Errors: make(map[string]string),
	}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// Check records msg under key when cond is false. The first message for a
// key wins.
func (v *Validator) Check(cond bool, key, msg string) {
	if cond {
		return
	}
	if _, ok := v.Errors[key]; !ok {
		v.Errors[key] = msg
	}
}

// CheckStruct runs the `validate` tags of s, a pointer to a struct.
func (v *Validator) CheckStruct(s any) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.Check(false, "_", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		v.Check(false, fe.Field(), message(fe))
	}
}

func message(fe playground.FieldError) string {
	msg, ok := messages[fe.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}
