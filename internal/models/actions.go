package models

import (
	"time"

	"github.com/google/uuid"
)

// CommunityAction is the relationship edge between a person and a community.
// A nil timestamp means the relationship does not hold.
type CommunityAction struct {
	PersonID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"person_id"`
	CommunityID     uuid.UUID  `gorm:"type:uuid;primaryKey;index" json:"community_id"`
	Followed        *time.Time `json:"followed,omitempty"`
	FollowPending   *bool      `json:"follow_pending,omitempty"`
	BecameModerator *time.Time `json:"became_moderator,omitempty"`
	ReceivedBan     *time.Time `json:"received_ban,omitempty"`
	BanExpires      *time.Time `json:"ban_expires,omitempty"`
}

func (CommunityAction) TableName() string {
	return "community_actions"
}

// PostAction is the relationship edge between a person and a post.
type PostAction struct {
	PersonID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"person_id"`
	PostID             uuid.UUID  `gorm:"type:uuid;primaryKey;index" json:"post_id"`
	Read               *time.Time `json:"read,omitempty"`
	ReadCommentsAmount *int64     `json:"read_comments_amount,omitempty"`
	Saved              *time.Time `json:"saved,omitempty"`
	Liked              *time.Time `json:"liked,omitempty"`
	LikeScore          *int16     `json:"like_score,omitempty"`
	Hidden             *time.Time `json:"hidden,omitempty"`
}

func (PostAction) TableName() string {
	return "post_actions"
}

// PersonAction is the relationship edge from one person to another.
type PersonAction struct {
	PersonID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"person_id"`
	TargetID      uuid.UUID  `gorm:"type:uuid;primaryKey;index" json:"target_id"`
	Followed      *time.Time `json:"followed,omitempty"`
	FollowPending *bool      `json:"follow_pending,omitempty"`
	Blocked       *time.Time `json:"blocked,omitempty"`
}

func (PersonAction) TableName() string {
	return "person_actions"
}
