package validators

import (
	"bitwise74/task-api/internal/model"
	"errors"
	"strings"
)

var (
	ErrNameEmpty   = errors.New("name is required")
	ErrAgeNegative = errors.New("age must be a positive number")
)

type accountRules struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Age   int    `validate:"gte=0"`
}

// AccountValidator normalizes a's name and email in place and checks the
// profile fields. The password is only checked when plain is true, stored
// hashes don't follow the plaintext rules
func AccountValidator(a *model.Account, plain bool) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = NormalizeEmail(a.Email)

	err := check(accountRules{
		Name:  a.Name,
		Email: a.Email,
		Age:   a.Age,
	}, map[string]error{
		"Name.required":  ErrNameEmpty,
		"Email.required": ErrEmailEmpty,
		"Email.email":    ErrEmailInvalid,
		"Age.gte":        ErrAgeNegative,
	})
	if err != nil {
		return err
	}

	if plain {
		return PasswordValidator(a.Password)
	}

	return nil
}
