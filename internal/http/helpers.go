// README: HTTP helper utilities for JSON and the uniform error shape.
package http

import (
	"github.com/gin-gonic/gin"
)

// errorResponse is the uniform failure body: the HTTP status carries the
// category, the shape never changes.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Success: false, Error: msg})
}
