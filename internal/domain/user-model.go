package domain

import "gorm.io/gorm"

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"uniqueIndex;not null" json:"username"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash *string `json:"-"`
	Active       bool    `gorm:"not null;default:false" json:"active"`
	GoogleID     *string `gorm:"uniqueIndex" json:"google_id,omitempty"`
	gorm.Model
}
