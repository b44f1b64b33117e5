package validators

import (
	"bitwise74/task-api/internal/model"
	"errors"
	"strings"
)

var ErrDescriptionEmpty = errors.New("description is required")

func TaskValidator(t *model.Task) error {
	t.Description = strings.TrimSpace(t.Description)

	return check(struct {
		Description string `validate:"required"`
	}{t.Description}, map[string]error{
		"Description.required": ErrDescriptionEmpty,
	})
}
