// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError names the field a validation rule failed on
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	return validate
}

// check runs the struct tags on s and turns the first failure into a
// FieldError using messages to pick the error for a field+tag pair
func check(s any, messages map[string]error) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := fe.Field()

	msg, ok := messages[field+"."+fe.Tag()]
	if !ok {
		msg = fe
	}

	return &FieldError{Field: jsonName(field), Err: msg}
}

func jsonName(field string) string {
	switch field {
	case "Name":
		return "name"
	case "Email":
		return "email"
	case "Age":
		return "age"
	case "Password":
		return "password"
	case "Description":
		return "description"
	}

	return field
}
