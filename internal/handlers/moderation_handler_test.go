package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/modqueue/internal/dto"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/models"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/pagination"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/services"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/viewer"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/views"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type fakeReportService struct {
	err error

	gotViewer viewer.Viewer
	gotQuery  views.PostReportQuery
	gotID     uuid.UUID
	gotCreate *dto.CreateReportRequest
	resolved  *bool
	count     int64
	reports   []views.PostReportView
}

func (f *fakeReportService) view(id uuid.UUID) *views.PostReportView {
	return &views.PostReportView{PostReport: models.PostReport{ID: id}}
}

func (f *fakeReportService) CreateReport(_ context.Context, v viewer.Viewer, req *dto.CreateReportRequest) (*views.PostReportView, error) {
	f.gotViewer, f.gotCreate = v, req
	if f.err != nil {
		return nil, f.err
	}
	return f.view(uuid.New()), nil
}

func (f *fakeReportService) GetReport(_ context.Context, v viewer.Viewer, reportID uuid.UUID) (*views.PostReportView, error) {
	f.gotViewer, f.gotID = v, reportID
	if f.err != nil {
		return nil, f.err
	}
	return f.view(reportID), nil
}

func (f *fakeReportService) ListReports(_ context.Context, v viewer.Viewer, opts views.PostReportQuery) ([]views.PostReportView, error) {
	f.gotViewer, f.gotQuery = v, opts
	if f.err != nil {
		return nil, f.err
	}
	return f.reports, nil
}

func (f *fakeReportService) CountReports(_ context.Context, v viewer.Viewer, communityID *uuid.UUID) (int64, error) {
	f.gotViewer = v
	f.gotQuery.CommunityID = communityID
	return f.count, f.err
}

func (f *fakeReportService) ResolveReport(_ context.Context, v viewer.Viewer, reportID uuid.UUID, resolved bool) (*views.PostReportView, error) {
	f.gotViewer, f.gotID, f.resolved = v, reportID, &resolved
	if f.err != nil {
		return nil, f.err
	}
	return f.view(reportID), nil
}

func (f *fakeReportService) ResolveAllForPost(_ context.Context, v viewer.Viewer, postID uuid.UUID) (int64, error) {
	f.gotViewer, f.gotID = v, postID
	return f.count, f.err
}

var testViewer = viewer.Viewer{PersonID: uuid.MustParse("6f1c2a3b-0000-4000-8000-000000000001")}

func newTestApp(svc ReportService, withViewer bool) *fiber.App {
	app := fiber.New()
	h := NewModerationHandler(svc)
	setViewer := func(c *fiber.Ctx) error {
		if withViewer {
			viewer.Set(c, testViewer)
		}
		return c.Next()
	}

	api := app.Group("/api", setViewer)
	api.Post("/reports", h.CreateReport)
	api.Get("/reports", h.ListReports)
	api.Get("/reports/count", h.CountReports)
	api.Get("/reports/:id", h.GetReport)
	api.Put("/reports/:id/resolve", h.ResolveReport)
	api.Post("/posts/:id/reports/resolve", h.ResolveAllForPost)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, b
}

func TestModerationHandler_ErrorMapping(t *testing.T) {
	reportPath := "/api/reports/" + uuid.NewString()
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"report not found", views.ErrReportNotFound, http.StatusNotFound},
		{"post not found", services.ErrPostNotFound, http.StatusNotFound},
		{"invalid pagination", fmt.Errorf("%w: limit 0", pagination.ErrInvalidPagination), http.StatusBadRequest},
		{"invalid reason", fmt.Errorf("%w: reason is required", services.ErrInvalidReason), http.StatusBadRequest},
		{"not moderator", services.ErrNotModerator, http.StatusForbidden},
		{"already reported", services.ErrAlreadyReported, http.StatusConflict},
		{"store failure", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeReportService{err: tt.err}, true)
			status, body := do(t, app, http.MethodGet, reportPath, "")
			if status != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", status, tt.status, body)
			}
			var resp dto.ErrorResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !resp.Error {
				t.Error("error flag not set")
			}
			if tt.status == http.StatusInternalServerError && strings.Contains(resp.Message, "connection refused") {
				t.Errorf("internal error leaked: %q", resp.Message)
			}
		})
	}
}

func TestModerationHandler_RequiresViewer(t *testing.T) {
	app := newTestApp(&fakeReportService{}, false)
	routes := []struct{ method, path, body string }{
		{http.MethodPost, "/api/reports", `{"post_id":"` + uuid.NewString() + `","reason":"spam"}`},
		{http.MethodGet, "/api/reports", ""},
		{http.MethodGet, "/api/reports/count", ""},
		{http.MethodGet, "/api/reports/" + uuid.NewString(), ""},
		{http.MethodPut, "/api/reports/" + uuid.NewString() + "/resolve", `{"resolved":true}`},
		{http.MethodPost, "/api/posts/" + uuid.NewString() + "/reports/resolve", ""},
	}
	for _, r := range routes {
		if status, _ := do(t, app, r.method, r.path, r.body); status != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", r.method, r.path, status)
		}
	}
}

func TestModerationHandler_BadInput(t *testing.T) {
	tests := []struct{ name, method, path, body string }{
		{"bad report id", http.MethodGet, "/api/reports/not-a-uuid", ""},
		{"bad resolve id", http.MethodPut, "/api/reports/42/resolve", `{"resolved":true}`},
		{"bad post id", http.MethodPost, "/api/posts/nope/reports/resolve", ""},
		{"bad community filter", http.MethodGet, "/api/reports?community_id=x", ""},
		{"bad post filter", http.MethodGet, "/api/reports?post_id=x", ""},
		{"bad page", http.MethodGet, "/api/reports?page=one", ""},
		{"bad limit", http.MethodGet, "/api/reports?limit=ten", ""},
		{"bad count filter", http.MethodGet, "/api/reports/count?community_id=x", ""},
		{"missing post id", http.MethodPost, "/api/reports", `{"reason":"spam"}`},
		{"malformed body", http.MethodPost, "/api/reports", `{"post_id":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeReportService{}
			app := newTestApp(svc, true)
			if status, body := do(t, app, tt.method, tt.path, tt.body); status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", status, body)
			}
			if svc.gotViewer != (viewer.Viewer{}) {
				t.Error("service called despite invalid input")
			}
		})
	}
}

func TestModerationHandler_ListReportsParsesQuery(t *testing.T) {
	communityID := uuid.New()
	svc := &fakeReportService{reports: []views.PostReportView{{}, {}}}
	app := newTestApp(svc, true)

	status, body := do(t, app, http.MethodGet, "/api/reports?community_id="+communityID.String()+"&page=2&limit=20&unresolved_only=true", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %s", status, body)
	}
	q := svc.gotQuery
	if q.CommunityID == nil || *q.CommunityID != communityID {
		t.Errorf("CommunityID = %v", q.CommunityID)
	}
	if q.PostID != nil {
		t.Errorf("PostID = %v, want nil", q.PostID)
	}
	if q.Page == nil || *q.Page != 2 || q.Limit == nil || *q.Limit != 20 {
		t.Errorf("page/limit = %v/%v", q.Page, q.Limit)
	}
	if !q.UnresolvedOnly {
		t.Error("UnresolvedOnly not set")
	}
	if svc.gotViewer != testViewer {
		t.Errorf("viewer = %+v", svc.gotViewer)
	}

	var resp struct {
		PostReports []json.RawMessage `json:"post_reports"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.PostReports) != 2 {
		t.Errorf("got %d reports, want 2", len(resp.PostReports))
	}
}

func TestModerationHandler_ListReportsDefaults(t *testing.T) {
	svc := &fakeReportService{}
	app := newTestApp(svc, true)

	if status, _ := do(t, app, http.MethodGet, "/api/reports", ""); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if q := svc.gotQuery; q.CommunityID != nil || q.PostID != nil || q.Page != nil || q.Limit != nil || q.UnresolvedOnly {
		t.Errorf("query = %+v, want zero value", q)
	}
}

func TestModerationHandler_CreateReport(t *testing.T) {
	svc := &fakeReportService{}
	app := newTestApp(svc, true)
	postID := uuid.New()

	status, body := do(t, app, http.MethodPost, "/api/reports", `{"post_id":"`+postID.String()+`","reason":"spam"}`)
	if status != http.StatusCreated {
		t.Fatalf("status = %d, body %s", status, body)
	}
	if svc.gotCreate == nil || svc.gotCreate.PostID != postID || svc.gotCreate.Reason != "spam" {
		t.Errorf("request = %+v", svc.gotCreate)
	}
}

func TestModerationHandler_ResolveReport(t *testing.T) {
	for _, resolved := range []bool{true, false} {
		svc := &fakeReportService{}
		app := newTestApp(svc, true)
		id := uuid.New()

		status, body := do(t, app, http.MethodPut, "/api/reports/"+id.String()+"/resolve", fmt.Sprintf(`{"resolved":%t}`, resolved))
		if status != http.StatusOK {
			t.Fatalf("status = %d, body %s", status, body)
		}
		if svc.gotID != id || svc.resolved == nil || *svc.resolved != resolved {
			t.Errorf("resolve(%t) called with id %s, resolved %v", resolved, svc.gotID, svc.resolved)
		}
	}
}

func TestModerationHandler_CountAndResolveAll(t *testing.T) {
	svc := &fakeReportService{count: 3}
	app := newTestApp(svc, true)
	communityID := uuid.New()

	status, body := do(t, app, http.MethodGet, "/api/reports/count?community_id="+communityID.String(), "")
	if status != http.StatusOK {
		t.Fatalf("count status = %d", status)
	}
	var count dto.ReportCountResponse
	if err := json.Unmarshal(body, &count); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if count.Count != 3 || count.CommunityID == nil || *count.CommunityID != communityID {
		t.Errorf("count response = %+v", count)
	}

	postID := uuid.New()
	status, body = do(t, app, http.MethodPost, "/api/posts/"+postID.String()+"/reports/resolve", "")
	if status != http.StatusOK {
		t.Fatalf("resolve-all status = %d", status)
	}
	var all dto.ResolveAllResponse
	if err := json.Unmarshal(body, &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if all.PostID != postID || all.Resolved != 3 {
		t.Errorf("resolve-all response = %+v", all)
	}
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name string
		ping error
		want string
	}{
		{"healthy", nil, "ok"},
		{"db down", errors.New("dial tcp: refused"), "unhealthy: dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/api/health", NewHealthHandler(func() error { return tt.ping }).Check)

			status, body := do(t, app, http.MethodGet, "/api/health", "")
			if status != http.StatusOK {
				t.Fatalf("status = %d", status)
			}
			var resp dto.HealthResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.DB != tt.want {
				t.Errorf("DB = %q, want %q", resp.DB, tt.want)
			}
		})
	}
}
