package models

import (
	"time"

	"github.com/google/uuid"
)

// Person is a local or federated account that can author posts and file reports.
type Person struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	DisplayName *string    `gorm:"size:255" json:"display_name,omitempty"`
	Avatar      *string    `gorm:"size:512" json:"avatar,omitempty"`
	Banned      bool       `gorm:"not null;default:false" json:"banned"`
	Local       bool       `gorm:"not null;default:false" json:"local"`
	Deleted     bool       `gorm:"not null;default:false" json:"deleted"`
	BotAccount  bool       `gorm:"not null;default:false" json:"bot_account"`
	Published   time.Time  `gorm:"not null;default:now()" json:"published"`
	Updated     *time.Time `json:"updated,omitempty"`
}

func (Person) TableName() string {
	return "persons"
}

// LocalUser carries the site-level settings of a person registered on this instance.
type LocalUser struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PersonID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"person_id"`
	Email    *string   `gorm:"size:255" json:"-"`
	Admin    bool      `gorm:"not null;default:false" json:"admin"`
}

func (LocalUser) TableName() string {
	return "local_users"
}
