package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the error body of a failed response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// APIResponse wraps every JSON response.
type APIResponse struct {
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Data: data, RequestID: c.GetString(requestIDKey)})
}

func failure(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, APIResponse{
		Error:     &APIError{Code: status, Message: msg},
		RequestID: c.GetString(requestIDKey),
	})
}
