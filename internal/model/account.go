// Package model defines database models
package model

import "time"

type Account struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	// Only ever holds the argon2id hash once the account was persisted
	Password string `gorm:"not null" json:"-"`
	Age      int    `gorm:"default:0" json:"age"`

	// Ordered by ID which follows issue order
	Tokens []SessionToken `gorm:"foreignKey:AccountID" json:"-"`

	Avatar    []byte `json:"-"`
	AvatarKey string `json:"-"` // Set when avatars live in object storage
	HasAvatar bool   `gorm:"default:false" json:"hasAvatar"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
