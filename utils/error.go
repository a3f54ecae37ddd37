package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
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

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					ErrorCode: "INTERNAL_ERROR",
					Message:   "Internal Server Error",
					Details:   "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, code, message, details string) {
	if status >= http.StatusInternalServerError {
		GetLogger().Error(message, zap.String("errorCode", code), zap.String("details", details))
	} else {
		GetLogger().Warn(message, zap.String("errorCode", code), zap.String("details", details))
	}
	c.JSON(status, ErrorResponse{ErrorCode: code, Message: message, Details: details})
}
