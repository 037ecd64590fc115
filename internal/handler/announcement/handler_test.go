package announcement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userhub/admin-api/internal/access"
	"github.com/userhub/admin-api/internal/middleware"
	"github.com/userhub/admin-api/internal/model"
	apperrors "github.com/userhub/admin-api/pkg/errors"
)

// fakeService records the arguments the handler passes through and returns
// canned results.
type fakeService struct {
	created *model.Announcement
	current *model.Announcement
	list    []*model.Announcement
	err     error

	gotCaller   access.Caller
	gotStart    time.Time
	gotEnd      time.Time
	gotSeverity string
	gotMessage  string
	gotDeleteID uuid.UUID
}

func (s *fakeService) Create(_ context.Context, caller access.Caller, start, end time.Time, severity, message string) (*model.Announcement, error) {
	s.gotCaller = caller
	s.gotStart = start
	s.gotEnd = end
	s.gotSeverity = severity
	s.gotMessage = message
	return s.created, s.err
}

func (s *fakeService) Delete(_ context.Context, caller access.Caller, id uuid.UUID) error {
	s.gotCaller = caller
	s.gotDeleteID = id
	return s.err
}

func (s *fakeService) List(_ context.Context, caller access.Caller) ([]*model.Announcement, error) {
	s.gotCaller = caller
	return s.list, s.err
}

func (s *fakeService) Current(context.Context) (*model.Announcement, error) {
	return s.current, s.err
}

func newTestRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identity(), middleware.ErrorHandler())
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doRequest(r *gin.Engine, method, target, body string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if admin {
		req.Header.Set(middleware.HeaderUserID, "admin-1")
		req.Header.Set(middleware.HeaderUserRoles, "admin")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateParsesQueryAndBody(t *testing.T) {
	svc := &fakeService{created: &model.Announcement{ID: uuid.New()}}
	r := newTestRouter(svc)

	w := doRequest(r, http.MethodPut,
		"/api/v1/announcements?startDate=2026-03-01T00:00:00Z&endDate=2026-03-02T00:00:00Z&severity=WARNING",
		"scheduled maintenance", true)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "admin-1", svc.gotCaller.ID)
	assert.Equal(t, []string{"admin"}, svc.gotCaller.Roles)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), svc.gotStart)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), svc.gotEnd)
	assert.Equal(t, "WARNING", svc.gotSeverity)
	assert.Equal(t, "scheduled maintenance", svc.gotMessage)
}

func TestCreateRejectsMissingDates(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc)

	w := doRequest(r, http.MethodPut, "/api/v1/announcements?severity=INFO", "msg", true)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(apperrors.ErrBadRequest), body.Code)
}

func TestCreateRejectsMalformedDate(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc)

	w := doRequest(r, http.MethodPut,
		"/api/v1/announcements?startDate=yesterday&endDate=2026-03-02T00:00:00Z", "msg", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMapsBusinessErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"permission", apperrors.PermissionDenied("no"), http.StatusForbidden, "PERMISSION_DENIED"},
		{"period", apperrors.InvalidPeriod("bad window"), http.StatusBadRequest, "INVALID_PERIOD"},
		{"severity", apperrors.InvalidSeverity("unknown"), http.StatusBadRequest, "INVALID_SEVERITY"},
		{"overlap", apperrors.Overlap("conflict"), http.StatusBadRequest, "OVERLAP"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{err: tc.err}
			r := newTestRouter(svc)

			w := doRequest(r, http.MethodPut,
				"/api/v1/announcements?startDate=2026-03-01T00:00:00Z&endDate=2026-03-02T00:00:00Z&severity=INFO",
				"msg", true)

			require.Equal(t, tc.status, w.Code)
			var body middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestDeleteParsesID(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc)
	id := uuid.New()

	w := doRequest(r, http.MethodDelete, "/api/v1/announcements/"+id.String(), "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, svc.gotDeleteID)

	w = doRequest(r, http.MethodDelete, "/api/v1/announcements/not-a-uuid", "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCurrent(t *testing.T) {
	active := &model.Announcement{
		ID:       uuid.New(),
		Message:  "ongoing maintenance",
		Severity: model.SeverityError,
	}
	svc := &fakeService{current: active}
	r := newTestRouter(svc)

	// No identity headers: the banner endpoint is public.
	w := doRequest(r, http.MethodGet, "/api/v1/announcements/current", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ongoing maintenance")
}

func TestGetCurrentEmpty(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/v1/announcements/current", "", false)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestUnknownErrorsBecome500(t *testing.T) {
	svc := &fakeService{err: assert.AnError}
	r := newTestRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/v1/announcements", "", true)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(apperrors.ErrInternal), body.Code)
	assert.Equal(t, "internal server error", body.Message, "internal details stay server-side")
}
