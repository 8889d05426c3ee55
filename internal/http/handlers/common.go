package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "empty_body", "request body is required", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "request body is not valid", err.Error())
		return false
	}
	return true
}
