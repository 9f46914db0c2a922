package handlers

import (
	"errors"
	"net/http"

	apperrors "bookit/internal/errors"
	"bookit/internal/logger"

	"github.com/gin-gonic/gin"
)

// respondError maps the error taxonomy onto HTTP statuses. Internal details
// stay in the log.
func respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrValidation.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrNotFound.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		// err carries the violated constraint name
		logger.WithContext(c.Request.Context()).Warn("Request conflicts with existing data", "error", err)
		c.JSON(http.StatusConflict, gin.H{"error": apperrors.ErrConflict.Error()})
	default:
		logger.WithContext(c.Request.Context()).Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
