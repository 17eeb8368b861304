package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/modqueue/internal/dto"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/models"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/pagination"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/viewer"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/views"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxReasonLength = 1000

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotModerator  = errors.New("not a moderator of this community")
	ErrInvalidReason = errors.New("invalid report reason")
)

// RE2 has no backreferences, so runs are spelled out per character.
var repeatedCharPattern = regexp.MustCompile(repeatedRunPattern("abcdefghijklmnopqrstuvwxyz!?.", 10))

func repeatedRunPattern(chars string, n int) string {
	alts := make([]string, 0, len(chars))
	for _, ch := range chars {
		alts = append(alts, fmt.Sprintf("%s{%d,}", regexp.QuoteMeta(string(ch)), n))
	}
	return "(?i)(" + strings.Join(alts, "|") + ")"
}

type ModerationService struct {
	db      *gorm.DB
	reports *ReportStore
	views   *views.PostReportViews
}

func NewModerationService(db *gorm.DB, paginator pagination.Paginator) *ModerationService {
	return &ModerationService{
		db:      db,
		reports: NewReportStore(db),
		views:   views.NewPostReportViews(db, paginator),
	}
}

func validateReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", fmt.Errorf("%w: reason is required", ErrInvalidReason)
	}
	if utf8.RuneCountInString(reason) > maxReasonLength {
		return "", fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidReason, maxReasonLength)
	}
	if repeatedCharPattern.MatchString(reason) {
		return "", fmt.Errorf("%w: reason appears to be spam", ErrInvalidReason)
	}
	return reason, nil
}

// CreateReport files a report on behalf of the viewer, snapshotting the post as it is now.
func (s *ModerationService) CreateReport(ctx context.Context, v viewer.Viewer, req *dto.CreateReportRequest) (*views.PostReportView, error) {
	reason, err := validateReason(req.Reason)
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", req.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	report, err := s.reports.Report(ctx, &models.PostReportForm{
		CreatorID:        v.PersonID,
		PostID:           post.ID,
		OriginalPostName: post.Name,
		OriginalPostURL:  post.URL,
		OriginalPostBody: post.Body,
		Reason:           reason,
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "post reported", "report_id", report.ID.String(), "post_id", post.ID.String(), "person_id", v.PersonID.String())
	return s.views.Read(ctx, report.ID, v.PersonID)
}

// GetReport authorizes the viewer against the report's community before
// reading, since the point lookup itself is unscoped.
func (s *ModerationService) GetReport(ctx context.Context, v viewer.Viewer, reportID uuid.UUID) (*views.PostReportView, error) {
	if err := s.requireReportModerator(ctx, v, reportID); err != nil {
		return nil, err
	}
	return s.views.Read(ctx, reportID, v.PersonID)
}

func (s *ModerationService) ListReports(ctx context.Context, v viewer.Viewer, opts views.PostReportQuery) ([]views.PostReportView, error) {
	return s.views.List(ctx, opts, v)
}

func (s *ModerationService) CountReports(ctx context.Context, v viewer.Viewer, communityID *uuid.UUID) (int64, error) {
	return s.views.GetReportCount(ctx, v.PersonID, v.Admin, communityID)
}

// ResolveReport resolves or reopens one report and returns its fresh view.
func (s *ModerationService) ResolveReport(ctx context.Context, v viewer.Viewer, reportID uuid.UUID, resolved bool) (*views.PostReportView, error) {
	if err := s.requireReportModerator(ctx, v, reportID); err != nil {
		return nil, err
	}

	var err error
	if resolved {
		err = s.reports.Resolve(ctx, reportID, v.PersonID)
	} else {
		err = s.reports.Unresolve(ctx, reportID)
	}
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "report resolution changed", "report_id", reportID.String(), "resolved", resolved, "person_id", v.PersonID.String())
	return s.views.Read(ctx, reportID, v.PersonID)
}

// ResolveAllForPost closes every open report on a post, typically after a
// moderator removed it.
func (s *ModerationService) ResolveAllForPost(ctx context.Context, v viewer.Viewer, postID uuid.UUID) (int64, error) {
	var communityIDs []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		Limit(1).
		Pluck("community_id", &communityIDs).Error; err != nil {
		return 0, fmt.Errorf("failed to load post: %w", err)
	}
	if len(communityIDs) == 0 {
		return 0, ErrPostNotFound
	}

	if err := s.requireModerator(ctx, v, communityIDs[0]); err != nil {
		return 0, err
	}

	affected, err := s.reports.ResolveAllForObject(ctx, postID, v.PersonID)
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "reports resolved for post", "post_id", postID.String(), "resolved", affected, "person_id", v.PersonID.String())
	return affected, nil
}

func (s *ModerationService) requireReportModerator(ctx context.Context, v viewer.Viewer, reportID uuid.UUID) error {
	var communityIDs []uuid.UUID
	if err := s.db.WithContext(ctx).Table("post_reports").
		Joins("JOIN posts ON posts.id = post_reports.post_id").
		Where("post_reports.id = ?", reportID).
		Limit(1).
		Pluck("posts.community_id", &communityIDs).Error; err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}
	if len(communityIDs) == 0 {
		return views.ErrReportNotFound
	}
	return s.requireModerator(ctx, v, communityIDs[0])
}

func (s *ModerationService) requireModerator(ctx context.Context, v viewer.Viewer, communityID uuid.UUID) error {
	if v.Admin {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.CommunityAction{}).
		Where("person_id = ? AND community_id = ? AND became_moderator IS NOT NULL", v.PersonID, communityID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check moderator status: %w", err)
	}
	if count == 0 {
		return ErrNotModerator
	}
	return nil
}
