package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/userhub/admin-api/internal/handler"
	"github.com/userhub/admin-api/internal/middleware"
	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/internal/service/profile"
	apperrors "github.com/userhub/admin-api/pkg/errors"
	"github.com/userhub/admin-api/pkg/validator"
)

type Handler struct {
	service  profile.Servicer
	validate *validator.Validator
}

func NewHandler(service profile.Servicer, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	profiles := r.Group("/profiles")
	{
		profiles.POST("", h.CreateProfile)
		profiles.GET("", h.ListProfiles)
		profiles.GET("/:name", h.GetProfile)
		profiles.DELETE("/:name", h.DeleteProfile)
	}
}

func (h *Handler) CreateProfile(c *gin.Context) {
	var req model.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("invalid request body", err))
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), nil))
		return
	}

	caller := middleware.CallerFrom(c)
	created, err := h.service.CreateProfile(c.Request.Context(), caller, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetProfile(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	p, err := h.service.GetProfile(c.Request.Context(), caller, c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) DeleteProfile(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	if err := h.service.DeleteProfile(c.Request.Context(), caller, c.Param("name")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("profile deleted"))
}

func (h *Handler) ListProfiles(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	profiles, err := h.service.ListProfiles(c.Request.Context(), caller)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(profiles))
}
