package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/modqueue/internal/dto"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/pagination"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/services"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/viewer"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/views"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ReportService is the moderation workflow the handler drives.
type ReportService interface {
	CreateReport(ctx context.Context, v viewer.Viewer, req *dto.CreateReportRequest) (*views.PostReportView, error)
	GetReport(ctx context.Context, v viewer.Viewer, reportID uuid.UUID) (*views.PostReportView, error)
	ListReports(ctx context.Context, v viewer.Viewer, opts views.PostReportQuery) ([]views.PostReportView, error)
	CountReports(ctx context.Context, v viewer.Viewer, communityID *uuid.UUID) (int64, error)
	ResolveReport(ctx context.Context, v viewer.Viewer, reportID uuid.UUID, resolved bool) (*views.PostReportView, error)
	ResolveAllForPost(ctx context.Context, v viewer.Viewer, postID uuid.UUID) (int64, error)
}

type ModerationHandler struct {
	moderationService ReportService
}

func NewModerationHandler(moderationService ReportService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// respondError maps service errors to HTTP statuses. Anything unrecognized is
// a store failure and its details stay in the logs.
func respondError(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, views.ErrReportNotFound), errors.Is(err, services.ErrPostNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, pagination.ErrInvalidPagination), errors.Is(err, services.ErrInvalidReason):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotModerator):
		return errorJSON(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrAlreadyReported):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	}

	slog.Error("moderation request failed", "action", action, "path", c.Path(), "request_id", c.GetRespHeader(fiber.HeaderXRequestID), "error", err)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return errorJSON(c, fiber.StatusInternalServerError, "Failed to "+action)
}

func optionalUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	v, err := viewer.Get(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.PostID == uuid.Nil {
		return errorJSON(c, fiber.StatusBadRequest, "post_id is required")
	}

	report, err := h.moderationService.CreateReport(c.UserContext(), v, &req)
	if err != nil {
		return respondError(c, err, "create report")
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ModerationHandler) GetReport(c *fiber.Ctx) error {
	v, err := viewer.Get(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	report, err := h.moderationService.GetReport(c.UserContext(), v, reportID)
	if err != nil {
		return respondError(c, err, "fetch report")
	}

	return c.JSON(report)
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	v, err := viewer.Get(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var opts views.PostReportQuery
	if opts.CommunityID, err = optionalUUID(c, "community_id"); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid community ID")
	}
	if opts.PostID, err = optionalUUID(c, "post_id"); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid post ID")
	}
	if opts.Page, err = optionalInt(c, "page"); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid page")
	}
	if opts.Limit, err = optionalInt(c, "limit"); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid limit")
	}
	opts.UnresolvedOnly = c.QueryBool("unresolved_only", false)

	reports, err := h.moderationService.ListReports(c.UserContext(), v, opts)
	if err != nil {
		return respondError(c, err, "fetch reports")
	}

	return c.JSON(fiber.Map{
		"post_reports": reports,
	})
}

func (h *ModerationHandler) CountReports(c *fiber.Ctx) error {
	v, err := viewer.Get(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	communityID, err := optionalUUID(c, "community_id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid community ID")
	}

	count, err := h.moderationService.CountReports(c.UserContext(), v, communityID)
	if err != nil {
		return respondError(c, err, "count reports")
	}

	return c.JSON(dto.ReportCountResponse{Count: count, CommunityID: communityID})
}

func (h *ModerationHandler) ResolveReport(c *fiber.Ctx) error {
	v, err := viewer.Get(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	var req dto.ResolveReportRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	report, err := h.moderationService.ResolveReport(c.UserContext(), v, reportID, req.Resolved)
	if err != nil {
		return respondError(c, err, "update report")
	}

	return c.JSON(report)
}

func (h *ModerationHandler) ResolveAllForPost(c *fiber.Ctx) error {
	v, err := viewer.Get(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid post ID")
	}

	resolved, err := h.moderationService.ResolveAllForPost(c.UserContext(), v, postID)
	if err != nil {
		return respondError(c, err, "resolve reports")
	}

	return c.JSON(dto.ResolveAllResponse{PostID: postID, Resolved: resolved})
}
