package views

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func countQuery(tx *gorm.DB, myPersonID uuid.UUID, admin bool, communityID *uuid.UUID) *gorm.DB {
	q := tx.Table("post_reports").
		Joins("JOIN posts ON post_reports.post_id = posts.id").
		Where("post_reports.resolved = ?", false)

	if communityID != nil {
		q = q.Where("posts.community_id = ?", *communityID)
	}

	if !admin {
		q = q.Joins("JOIN community_actions ON community_actions.community_id = posts.community_id AND community_actions.person_id = ? AND community_actions.became_moderator IS NOT NULL", myPersonID)
	}
	return q
}

// GetReportCount counts unresolved reports in the communities the viewer
// moderates, or everywhere for an admin.
func (p *PostReportViews) GetReportCount(ctx context.Context, myPersonID uuid.UUID, admin bool, communityID *uuid.UUID) (int64, error) {
	var count int64
	if err := countQuery(p.db.WithContext(ctx), myPersonID, admin, communityID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count post reports: %w", err)
	}
	return count, nil
}
