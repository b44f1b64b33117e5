package validators

import (
	"errors"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("email is invalid")
)

// NormalizeEmail trims and lower-cases e so lookups and the unique index
// agree on one spelling per address
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func EmailValidator(e string) error {
	err := check(struct {
		Email string `validate:"required,email"`
	}{e}, map[string]error{
		"Email.required": ErrEmailEmpty,
		"Email.email":    ErrEmailInvalid,
	})

	return err
}
