package utils

import (
	"errors"
	"net/http"

	"mobilemech/services/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// StatusFor maps an application error code to its HTTP status.
func StatusFor(code apperr.Code) int {
	switch code {
	case apperr.SlotNotFound, apperr.BookingNotFound, apperr.ServiceNotFound,
		apperr.CustomerNotFound, apperr.TokenNotFound:
		return http.StatusNotFound
	case apperr.SlotUnavailable, apperr.InvalidTransition, apperr.AlreadyResolved:
		return http.StatusConflict
	case apperr.DuplicateSlot, apperr.SlotInUse, apperr.Validation:
		return http.StatusBadRequest
	case apperr.TokenExpired:
		return http.StatusGone
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.PaymentFailed:
		return http.StatusPaymentRequired
	}
	return http.StatusInternalServerError
}

// WriteError sends a typed application error to the client. Anything that is
// not an *apperr.Error is logged in full and reported as a generic 500.
func WriteError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := StatusFor(code)
	if status == http.StatusInternalServerError {
		GetLogger().Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(status, ErrorResponse{Error: "Internal server error"})
		return
	}

	var ae *apperr.Error
	errors.As(err, &ae)
	GetLogger().Debug("Request rejected", zap.String("code", string(code)), zap.String("message", ae.Message))
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ae.Message, Code: string(code), Details: ae.Details})
}
