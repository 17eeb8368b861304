package dto

import "github.com/google/uuid"

type CreateReportRequest struct {
	PostID uuid.UUID `json:"post_id"`
	Reason string    `json:"reason"`
}

type ResolveReportRequest struct {
	Resolved bool `json:"resolved"`
}

type ReportCountResponse struct {
	Count       int64      `json:"count"`
	CommunityID *uuid.UUID `json:"community_id,omitempty"`
}

type ResolveAllResponse struct {
	PostID   uuid.UUID `json:"post_id"`
	Resolved int64     `json:"resolved"`
}
