package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string     `gorm:"size:200;not null" json:"name"`
	URL               *string    `gorm:"size:2000" json:"url,omitempty"`
	Body              *string    `gorm:"type:text" json:"body,omitempty"`
	CreatorID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"creator_id"`
	CommunityID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"community_id"`
	Removed           bool       `gorm:"not null;default:false" json:"removed"`
	Locked            bool       `gorm:"not null;default:false" json:"locked"`
	Deleted           bool       `gorm:"not null;default:false" json:"deleted"`
	FeaturedCommunity bool       `gorm:"not null;default:false" json:"featured_community"`
	Published         time.Time  `gorm:"not null;default:now()" json:"published"`
	Updated           *time.Time `json:"updated,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

// AfterCreate seeds the aggregates row every post view joins against.
func (p *Post) AfterCreate(tx *gorm.DB) error {
	published := p.Published
	if published.IsZero() {
		published = time.Now()
	}
	return tx.Create(&PostAggregates{
		PostID:            p.ID,
		Published:         published,
		NewestCommentTime: published,
	}).Error
}

// PostAggregates holds the counters maintained for a post.
type PostAggregates struct {
	PostID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"post_id"`
	Comments          int64     `gorm:"not null;default:0" json:"comments"`
	Score             int64     `gorm:"not null;default:0" json:"score"`
	Upvotes           int64     `gorm:"not null;default:0" json:"upvotes"`
	Downvotes         int64     `gorm:"not null;default:0" json:"downvotes"`
	Published         time.Time `gorm:"not null;default:now()" json:"published"`
	NewestCommentTime time.Time `gorm:"not null;default:now()" json:"newest_comment_time"`
}

func (PostAggregates) TableName() string {
	return "post_aggregates"
}
