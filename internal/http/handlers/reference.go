package handlers

import (
	"net/http"
	"strings"

	"bluebay/internal/domain"
	"bluebay/internal/services"

	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves the five proxied reference lists the booking
// form's dropdowns consume.
type ReferenceHandler struct {
	Reference *services.ReferenceService
}

// List responds with the (optionally code-filtered) reference list. An
// upstream failure still answers 200 with an empty list and an error note,
// so the form degrades instead of breaking.
func (h ReferenceHandler) List(kind domain.ReferenceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := h.Reference.List(c.Request.Context(), kind)

		code := strings.TrimSpace(c.Query("code"))
		var selected *domain.ReferenceRecord
		if code != "" {
			catalog := services.NewReferenceCatalog(kind, records)
			records = catalog.FilterByCode(code)
			selected = catalog.Selected()
		}
		if records == nil {
			records = []domain.ReferenceRecord{}
		}

		resp := gin.H{"success": err == nil, "data": records}
		if selected != nil {
			resp["selected"] = selected
		}
		if err != nil {
			resp["error"] = err.Error()
		}
		c.JSON(http.StatusOK, resp)
	}
}
