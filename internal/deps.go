package internal

import (
	"bitwise74/task-api/internal/service"

	"gorm.io/gorm"
)

type Deps struct {
	DB            *gorm.DB
	Accounts      *service.Accounts
	Sessions      *service.Sessions
	Tasks         *service.Tasks
	Notifier      *service.Notifier
	MaxUploadSize int64
}
