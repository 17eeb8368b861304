package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/modqueue/internal/models"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/views"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAlreadyReported = errors.New("post already reported by this person")

// ReportStore mutates post_reports. Every method is a single statement, so
// concurrent callers rely on the database for isolation.
type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Report files a new report. A second report by the same person on the same
// post violates idx_post_reports_creator_post.
func (s *ReportStore) Report(ctx context.Context, form *models.PostReportForm) (*models.PostReport, error) {
	report := models.PostReport{
		CreatorID:        form.CreatorID,
		PostID:           form.PostID,
		OriginalPostName: form.OriginalPostName,
		OriginalPostURL:  form.OriginalPostURL,
		OriginalPostBody: form.OriginalPostBody,
		Reason:           form.Reason,
	}

	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReported
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (s *ReportStore) Resolve(ctx context.Context, reportID, resolverID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.PostReport{}).
		Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"resolved":    true,
			"resolver_id": resolverID,
			"updated":     time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to resolve report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return views.ErrReportNotFound
	}
	return nil
}

func (s *ReportStore) Unresolve(ctx context.Context, reportID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.PostReport{}).
		Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"resolved":    false,
			"resolver_id": nil,
			"updated":     time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to unresolve report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return views.ErrReportNotFound
	}
	return nil
}

// ResolveAllForObject resolves every open report on a post, stamping the same
// resolver on each. Reports that are already resolved are left alone, so a
// repeated call affects zero rows and still succeeds.
func (s *ReportStore) ResolveAllForObject(ctx context.Context, postID, resolverID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.PostReport{}).
		Where("post_id = ? AND resolved = ?", postID, false).
		Updates(map[string]interface{}{
			"resolved":    true,
			"resolver_id": resolverID,
			"updated":     time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to resolve reports for post: %w", result.Error)
	}
	return result.RowsAffected, nil
}
