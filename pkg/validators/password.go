package validators

import (
	"errors"
	"strings"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 7 characters long")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordEmpty    = errors.New("no password provided")
	ErrPasswordWord     = errors.New(`password should not contain the word "password"`)
)

func PasswordValidator(p string) error {
	if p == "" {
		return &FieldError{Field: "password", Err: ErrPasswordEmpty}
	}

	if len(p) < 7 {
		return &FieldError{Field: "password", Err: ErrPasswordTooShort}
	}

	if len(p) > 255 {
		return &FieldError{Field: "password", Err: ErrPasswordTooLong}
	}

	if strings.Contains(strings.ToLower(p), "password") {
		return &FieldError{Field: "password", Err: ErrPasswordWord}
	}

	return nil
}
