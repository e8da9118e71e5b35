package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account. Remarks belong to exactly one user.
type User struct {
	ID                   uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName            string    `json:"firstName" gorm:"size:255;not null"`
	LastName             string    `json:"lastName" gorm:"size:255;not null"`
	Email                string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash         string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	ProfileImage         *string   `json:"profileImage" gorm:"size:512"`
	ProfileImagePublicId *string   `json:"profileImagePublicId" gorm:"size:255"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
