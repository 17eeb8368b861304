package viewer

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscribedType is the viewer's follow state for a community.
type SubscribedType string

const (
	Subscribed    SubscribedType = "Subscribed"
	NotSubscribed SubscribedType = "NotSubscribed"
	Pending       SubscribedType = "Pending"
)

// The scopes below expect posts to be joined already. Each edge is keyed on
// (viewer, target) and left joined, so a missing row yields NULL columns
// and the flag expressions in Columns evaluate to false.

// CommunityEdge joins the viewer's relationship to the post's community.
func CommunityEdge(personID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("LEFT JOIN community_actions ON community_actions.community_id = posts.community_id AND community_actions.person_id = ?", personID)
	}
}

// PostEdge joins the viewer's relationship to the post.
func PostEdge(personID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("LEFT JOIN post_actions ON post_actions.post_id = posts.id AND post_actions.person_id = ?", personID)
	}
}

// PersonEdge joins the viewer's relationship to the post's creator.
func PersonEdge(personID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("LEFT JOIN person_actions ON person_actions.target_id = posts.creator_id AND person_actions.person_id = ?", personID)
	}
}

// Edges joins every viewer-relative edge.
func Edges(personID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(CommunityEdge(personID), PostEdge(personID), PersonEdge(personID))
	}
}

// ModeratedOnly keeps rows whose community the viewer moderates. It needs CommunityEdge.
func ModeratedOnly(db *gorm.DB) *gorm.DB {
	return db.Where("community_actions.became_moderator IS NOT NULL")
}

// Columns projects the viewer-relative flags. Unread comments fall back to the
// raw total when the viewer has no post_actions row.
var Columns = []string{
	"CASE WHEN community_actions.followed IS NULL THEN 'NotSubscribed' WHEN community_actions.follow_pending THEN 'Pending' ELSE 'Subscribed' END AS subscribed",
	"post_actions.saved IS NOT NULL AS saved",
	"post_actions.read IS NOT NULL AS read",
	"post_actions.hidden IS NOT NULL AS hidden",
	"person_actions.blocked IS NOT NULL AS creator_blocked",
	"post_actions.like_score AS my_vote",
	"COALESCE(post_aggregates.comments - post_actions.read_comments_amount, post_aggregates.comments) AS unread_comments",
}
