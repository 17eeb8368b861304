package models

import (
	"time"

	"github.com/google/uuid"
)

type Community struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	Removed     bool       `gorm:"not null;default:false" json:"removed"`
	Deleted     bool       `gorm:"not null;default:false" json:"deleted"`
	Hidden      bool       `gorm:"not null;default:false" json:"hidden"`
	Published   time.Time  `gorm:"not null;default:now()" json:"published"`
	Updated     *time.Time `json:"updated,omitempty"`
}

func (Community) TableName() string {
	return "communities"
}
