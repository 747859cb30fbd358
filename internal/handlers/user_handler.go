package handlers

import (
	"net/http"

	"shop_backend/internal/middleware"
	"shop_backend/internal/services"
	"shop_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

// RegisterRoutes registers the user routes. The admin group is gated by
// both the auth middleware and the admin role check.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	me := rg.Group("/users")
	me.Use(authMW)
	{
		me.GET("/me", h.GetCurrentUser)
	}

	admin := rg.Group("/admin")
	admin.Use(authMW)
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/users", h.ListUsers)
	}
}

// GetCurrentUser returns the projection of the authenticated user.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user := middleware.CurrentUser(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  dto.NewUserDTO(user),
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	response, err := h.userService.ListUsers(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
