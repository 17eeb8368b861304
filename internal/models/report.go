package models

import (
	"time"

	"github.com/google/uuid"
)

// PostReport is one person's complaint about one post. The original_* columns
// snapshot the post at report time and never change afterwards.
type PostReport struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatorID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_post_reports_creator_post" json:"creator_id"`
	PostID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_post_reports_creator_post;index" json:"post_id"`
	OriginalPostName string     `gorm:"size:200;not null" json:"original_post_name"`
	OriginalPostURL  *string    `gorm:"size:2000" json:"original_post_url,omitempty"`
	OriginalPostBody *string    `gorm:"type:text" json:"original_post_body,omitempty"`
	Reason           string     `gorm:"size:1000;not null" json:"reason"`
	Resolved         bool       `gorm:"not null;default:false;index" json:"resolved"`
	ResolverID       *uuid.UUID `gorm:"type:uuid" json:"resolver_id,omitempty"`
	Published        time.Time  `gorm:"not null;default:now();index" json:"published"`
	Updated          *time.Time `json:"updated,omitempty"`
}

func (PostReport) TableName() string {
	return "post_reports"
}

// PostReportForm is the insert form for a new report.
type PostReportForm struct {
	CreatorID        uuid.UUID
	PostID           uuid.UUID
	OriginalPostName string
	OriginalPostURL  *string
	OriginalPostBody *string
	Reason           string
}
