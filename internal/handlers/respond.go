package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/apperr"
)

// httpStatusFromError maps the error taxonomy onto HTTP status codes.
func httpStatusFromError(err error) int {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case apperr.KindValidation, apperr.KindBusinessRule:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error body. Unexpected errors are
// logged with their cause and surfaced as a bare 500.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	status := httpStatusFromError(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"requestId", c.GetString("requestId"),
			"error", err,
		)
		c.JSON(status, gin.H{"message": "Internal server error"})
		return
	}

	var ae *apperr.Error
	errors.As(err, &ae)
	body := gin.H{"message": ae.Message}
	if len(ae.Fields) > 0 {
		body["errors"] = ae.Fields
	}
	c.JSON(status, body)
}
