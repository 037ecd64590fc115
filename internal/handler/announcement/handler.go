package announcement

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/userhub/admin-api/internal/handler"
	"github.com/userhub/admin-api/internal/middleware"
	"github.com/userhub/admin-api/internal/service/announcement"
	apperrors "github.com/userhub/admin-api/pkg/errors"
)

type Handler struct {
	service announcement.Servicer
}

func NewHandler(service announcement.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	announcements := r.Group("/announcements")
	{
		// Current is the public banner endpoint; everything else is
		// admin-gated inside the service.
		announcements.GET("/current", h.GetCurrent)
		announcements.GET("", h.List)
		announcements.PUT("", h.Create)
		announcements.DELETE("/:id", h.Delete)
	}
}

// Create accepts the window and severity as query parameters and the
// message text as the request body.
func (h *Handler) Create(c *gin.Context) {
	start, err := parseTimeParam(c, "startDate")
	if err != nil {
		c.Error(err)
		return
	}
	end, err := parseTimeParam(c, "endDate")
	if err != nil {
		c.Error(err)
		return
	}
	severity := c.Query("severity")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(apperrors.BadRequest("failed to read request body", err))
		return
	}
	message := strings.TrimSpace(string(body))

	caller := middleware.CallerFrom(c)
	created, err := h.service.Create(c.Request.Context(), caller, start, end, severity, message)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(created))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid announcement ID", err))
		return
	}

	caller := middleware.CallerFrom(c)
	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		c.Error(err)
		return
	}

	// Idempotent: 200 whether or not the id existed.
	c.JSON(http.StatusOK, handler.NewMessageResponse("announcement deleted"))
}

func (h *Handler) List(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	announcements, err := h.service.List(c.Request.Context(), caller)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(announcements))
}

func (h *Handler) GetCurrent(c *gin.Context) {
	current, err := h.service.Current(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	if current == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(current))
}

func parseTimeParam(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, apperrors.BadRequest(fmt.Sprintf("%s is required", name), nil)
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.BadRequest(fmt.Sprintf("%s must be RFC3339", name), err)
	}
	return t.UTC(), nil
}
