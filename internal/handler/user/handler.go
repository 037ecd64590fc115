package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/userhub/admin-api/internal/handler"
	"github.com/userhub/admin-api/internal/middleware"
	"github.com/userhub/admin-api/internal/model"
	"github.com/userhub/admin-api/internal/service/user"
	apperrors "github.com/userhub/admin-api/pkg/errors"
	"github.com/userhub/admin-api/pkg/validator"
)

type Handler struct {
	service  user.Servicer
	validate *validator.Validator
}

func NewHandler(service user.Servicer, validate *validator.Validator) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PATCH("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)

		users.POST("/:id/connections", h.RegisterConnection)
		users.GET("/:id/connections", h.ListConnections)
	}
	r.DELETE("/connections/:id", h.CloseConnection)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("invalid request body", err))
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), nil))
		return
	}

	caller := middleware.CallerFrom(c)
	created, err := h.service.CreateUser(c.Request.Context(), caller, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid user ID", err))
		return
	}

	caller := middleware.CallerFrom(c)
	u, err := h.service.GetUser(c.Request.Context(), caller, id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(u))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid user ID", err))
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("invalid request body", err))
		return
	}
	if err := h.validate.Validate(&req); err != nil {
		c.Error(apperrors.BadRequest(err.Error(), nil))
		return
	}

	caller := middleware.CallerFrom(c)
	updated, err := h.service.UpdateUser(c.Request.Context(), caller, id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid user ID", err))
		return
	}

	caller := middleware.CallerFrom(c)
	if err := h.service.DeleteUser(c.Request.Context(), caller, id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("user deleted"))
}

func (h *Handler) ListUsers(c *gin.Context) {
	filters := &model.UserFilters{
		Profile: c.Query("profile"),
		Group:   c.Query("group"),
	}

	caller := middleware.CallerFrom(c)
	users, err := h.service.ListUsers(c.Request.Context(), caller, filters)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}

func (h *Handler) RegisterConnection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid user ID", err))
		return
	}

	conn, err := h.service.RegisterConnection(c.Request.Context(), id, c.ClientIP())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(conn))
}

func (h *Handler) ListConnections(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid user ID", err))
		return
	}

	caller := middleware.CallerFrom(c)
	conns, err := h.service.ListConnections(c.Request.Context(), caller, id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(conns))
}

func (h *Handler) CloseConnection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.BadRequest("invalid connection ID", err))
		return
	}

	if err := h.service.CloseConnection(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("connection closed"))
}
