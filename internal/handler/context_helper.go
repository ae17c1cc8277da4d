package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/talent-factory-api/internal/middleware"
	"github.com/noah-isme/talent-factory-api/internal/models"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
	"github.com/noah-isme/talent-factory-api/pkg/response"
)

// claimsFromContext returns the caller's claims. Services reject a nil actor
// themselves, so handlers pass the result through unchecked.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.CurrentUser(c)
}

// applicationID reads the :id path segment. Blank ids are answered with 400
// before any lookup happens.
func applicationID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "application id is required"))
		return "", false
	}
	return id, true
}
