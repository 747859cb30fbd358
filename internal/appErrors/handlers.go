package appErrors

import (
	"shop_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *AppError `json:"error"`
}

// HandleError writes an AppError as the HTTP response. This is the only
// place that maps error kinds to transport-level status codes.
func HandleError(c *gin.Context, err *AppError) {
	if err.HTTPCode >= 500 {
		logger.CtxWithError(c.Request.Context(), "Server error", err)
	}

	c.AbortWithStatusJSON(err.HTTPCode, ErrorResponse{Success: false, Error: err})
}
