package model

import "time"

type SessionToken struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"`
	AccountID string     `gorm:"index;not null"`
	Token     string     `gorm:"uniqueIndex;not null"`
	ExpiresAt *time.Time `gorm:"index"` // nil when tokens are issued without expiry
	CreatedAt time.Time
}
