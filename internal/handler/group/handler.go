package group

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/userhub/admin-api/internal/handler"
	"github.com/userhub/admin-api/internal/middleware"
	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/internal/service/group"
	apperrors "github.com/userhub/admin-api/pkg/errors"
	"github.com/userhub/admin-api/pkg/validator"
)

type Handler struct {
	service  group.Servicer
	validate *validator.Validator
}

func NewHandler(service group.Servicer, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	groups := r.Group("/groups")
	{
		groups.POST("", h.CreateGroup)
		groups.GET("", h.ListGroups)
		groups.DELETE("/:name", h.DeleteGroup)

		groups.GET("/:name/members", h.ListMembers)
		groups.PUT("/:name/members/:user_id", h.AddMember)
		groups.DELETE("/:name/members/:user_id", h.RemoveMember)
	}
}

func (h *Handler) CreateGroup(c *gin.Context) {
	var req model.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("invalid request body", err))
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), nil))
		return
	}

	caller := middleware.CallerFrom(c)
	created, err := h.service.CreateGroup(c.Request.Context(), caller, req.Name)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) DeleteGroup(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	if err := h.service.DeleteGroup(c.Request.Context(), caller, c.Param("name")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("group deleted"))
}

func (h *Handler) ListGroups(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	groups, err := h.service.ListGroups(c.Request.Context(), caller)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(groups))
}

func (h *Handler) ListMembers(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	members, err := h.service.ListMembers(c.Request.Context(), caller, c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(members))
}

func (h *Handler) AddMember(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid user ID", err))
		return
	}

	caller := middleware.CallerFrom(c)
	if err := h.service.AddMember(c.Request.Context(), caller, c.Param("name"), userID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("member added"))
}

func (h *Handler) RemoveMember(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid user ID", err))
		return
	}

	caller := middleware.CallerFrom(c)
	if err := h.service.RemoveMember(c.Request.Context(), caller, c.Param("name"), userID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("member removed"))
}
