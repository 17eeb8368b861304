package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/modqueue/internal/models"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/pagination"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/viewer"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrReportNotFound = errors.New("report not found")

// PostReportView is a report joined with everything a moderator needs to act
// on it. Flags are relative to the viewer the view was read for.
type PostReportView struct {
	PostReport                 models.PostReport     `json:"post_report"`
	Post                       models.Post           `json:"post"`
	Community                  models.Community      `json:"community"`
	Creator                    models.Person         `json:"creator"`
	PostCreator                models.Person         `json:"post_creator"`
	CreatorBannedFromCommunity bool                  `json:"creator_banned_from_community"`
	CreatorIsModerator         bool                  `json:"creator_is_moderator"`
	CreatorIsAdmin             bool                  `json:"creator_is_admin"`
	Subscribed                 viewer.SubscribedType `json:"subscribed"`
	Saved                      bool                  `json:"saved"`
	Read                       bool                  `json:"read"`
	Hidden                     bool                  `json:"hidden"`
	CreatorBlocked             bool                  `json:"creator_blocked"`
	MyVote                     *int16                `json:"my_vote"`
	UnreadComments             int64                 `json:"unread_comments"`
	Counts                     models.PostAggregates `json:"counts"`
	Resolver                   *models.Person        `json:"resolver"`
}

// PostReportQuery holds the list filters. The zero value lists every report
// the viewer may see, newest first.
type PostReportQuery struct {
	CommunityID    *uuid.UUID
	PostID         *uuid.UUID
	Page           *int
	Limit          *int
	UnresolvedOnly bool
}

// postReportRow is the flat scan target of allJoins. Prefixes must match the
// aliases produced in selectColumns.
type postReportRow struct {
	PostReport                 models.PostReport     `gorm:"embedded;embeddedPrefix:report_"`
	Post                       models.Post           `gorm:"embedded;embeddedPrefix:post_"`
	Community                  models.Community      `gorm:"embedded;embeddedPrefix:community_"`
	Creator                    models.Person         `gorm:"embedded;embeddedPrefix:reporter_"`
	PostCreator                models.Person         `gorm:"embedded;embeddedPrefix:author_"`
	Counts                     models.PostAggregates `gorm:"embedded;embeddedPrefix:counts_"`
	Resolver                   models.Person         `gorm:"embedded;embeddedPrefix:resolver_"`
	CreatorBannedFromCommunity bool
	CreatorIsModerator         bool
	CreatorIsAdmin             bool
	Subscribed                 string
	Saved                      bool
	Read                       bool
	Hidden                     bool
	CreatorBlocked             bool
	MyVote                     *int16
	UnreadComments             int64
}

func (r *postReportRow) toView() PostReportView {
	v := PostReportView{
		PostReport:                 r.PostReport,
		Post:                       r.Post,
		Community:                  r.Community,
		Creator:                    r.Creator,
		PostCreator:                r.PostCreator,
		CreatorBannedFromCommunity: r.CreatorBannedFromCommunity,
		CreatorIsModerator:         r.CreatorIsModerator,
		CreatorIsAdmin:             r.CreatorIsAdmin,
		Subscribed:                 viewer.SubscribedType(r.Subscribed),
		Saved:                      r.Saved,
		Read:                       r.Read,
		Hidden:                     r.Hidden,
		CreatorBlocked:             r.CreatorBlocked,
		MyVote:                     r.MyVote,
		UnreadComments:             r.UnreadComments,
		Counts:                     r.Counts,
	}
	// the resolver join matches nothing while resolver_id is NULL
	if r.PostReport.ResolverID != nil && r.Resolver.ID != uuid.Nil {
		resolver := r.Resolver
		v.Resolver = &resolver
	}
	return v
}

// PostReportViews reads report views. It holds no state besides the pool and
// the pagination bounds, so one value serves every viewer.
type PostReportViews struct {
	db        *gorm.DB
	paginator pagination.Paginator
}

func NewPostReportViews(db *gorm.DB, paginator pagination.Paginator) *PostReportViews {
	return &PostReportViews{db: db, paginator: paginator}
}

func selectColumns(db *gorm.DB) (string, error) {
	groups := make([][]string, 0, 9)
	for _, p := range []struct {
		model  interface{}
		table  string
		prefix string
	}{
		{&models.PostReport{}, "post_reports", "report_"},
		{&models.Post{}, "posts", "post_"},
		{&models.Community{}, "communities", "community_"},
		{&models.Person{}, "reporter", "reporter_"},
		{&models.Person{}, "author", "author_"},
		{&models.PostAggregates{}, "post_aggregates", "counts_"},
		{&models.Person{}, "resolver", "resolver_"},
	} {
		cols, err := columnsAs(db, p.model, p.table, p.prefix)
		if err != nil {
			return "", err
		}
		groups = append(groups, cols)
	}
	groups = append(groups, []string{
		"creator_community_actions.received_ban IS NOT NULL AS creator_banned_from_community",
		"creator_community_actions.became_moderator IS NOT NULL AS creator_is_moderator",
		"author_local_user.admin IS NOT NULL AS creator_is_admin",
	}, viewer.Columns)
	return joinColumns(groups...), nil
}

// allJoins builds the join graph shared by Read and List on top of a base
// query over post_reports. The creator_community_actions and
// author_local_user joins describe the post creator's standing and do not
// depend on the viewer.
func allJoins(tx *gorm.DB, myPersonID uuid.UUID) (*gorm.DB, error) {
	cols, err := selectColumns(tx)
	if err != nil {
		return nil, err
	}
	return tx.
		Select(cols).
		Joins("JOIN posts ON post_reports.post_id = posts.id").
		Joins("JOIN communities ON posts.community_id = communities.id").
		Joins("JOIN persons reporter ON post_reports.creator_id = reporter.id").
		Joins("JOIN persons author ON posts.creator_id = author.id").
		Joins("LEFT JOIN community_actions creator_community_actions ON creator_community_actions.person_id = posts.creator_id AND creator_community_actions.community_id = posts.community_id").
		Joins("LEFT JOIN local_users author_local_user ON author_local_user.person_id = posts.creator_id AND author_local_user.admin = true").
		Joins("JOIN post_aggregates ON post_reports.post_id = post_aggregates.post_id").
		Joins("LEFT JOIN persons resolver ON post_reports.resolver_id = resolver.id").
		Scopes(viewer.Edges(myPersonID)), nil
}

// readQuery builds the point lookup. It applies no visibility policy; callers
// authorize the viewer before reading.
func readQuery(tx *gorm.DB, reportID, myPersonID uuid.UUID) (*gorm.DB, error) {
	q, err := allJoins(tx.Table("post_reports"), myPersonID)
	if err != nil {
		return nil, err
	}
	return q.Where("post_reports.id = ?", reportID).Limit(1), nil
}

func (p *PostReportViews) listQuery(tx *gorm.DB, opts PostReportQuery, v viewer.Viewer) (*gorm.DB, error) {
	q, err := allJoins(tx.Table("post_reports"), v.PersonID)
	if err != nil {
		return nil, err
	}

	if opts.CommunityID != nil {
		q = q.Where("posts.community_id = ?", *opts.CommunityID)
	}
	if opts.PostID != nil {
		q = q.Where("posts.id = ?", *opts.PostID)
	}

	// The unresolved queue drains oldest first; the full history shows newest first.
	if opts.UnresolvedOnly {
		q = q.Where("post_reports.resolved = ?", false).Order("post_reports.published ASC")
	} else {
		q = q.Order("post_reports.published DESC")
	}

	limit, offset, err := p.paginator.LimitAndOffset(opts.Page, opts.Limit)
	if err != nil {
		return nil, err
	}
	q = q.Limit(limit).Offset(offset)

	if !v.Admin {
		q = q.Scopes(viewer.ModeratedOnly)
	}
	return q, nil
}

// Read returns the view of one report as seen by myPersonID.
func (p *PostReportViews) Read(ctx context.Context, reportID, myPersonID uuid.UUID) (*PostReportView, error) {
	q, err := readQuery(p.db.WithContext(ctx), reportID, myPersonID)
	if err != nil {
		return nil, err
	}

	var rows []postReportRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read post report view: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrReportNotFound
	}
	view := rows[0].toView()
	return &view, nil
}

// List returns the reports matching opts. Non-admin viewers only see reports
// from communities they moderate.
func (p *PostReportViews) List(ctx context.Context, opts PostReportQuery, v viewer.Viewer) ([]PostReportView, error) {
	q, err := p.listQuery(p.db.WithContext(ctx), opts, v)
	if err != nil {
		return nil, err
	}

	var rows []postReportRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list post report views: %w", err)
	}

	result := make([]PostReportView, len(rows))
	for i := range rows {
		result[i] = rows[i].toView()
	}
	return result, nil
}
