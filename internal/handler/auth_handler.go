package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/talent-factory-api/internal/models"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
	"github.com/noah-isme/talent-factory-api/pkg/response"
)

// CurrentUser is the identity resolved from the bearer token.
type CurrentUser struct {
	UserID   string          `json:"userId"`
	ActorID  string          `json:"actorId"`
	Role     models.UserRole `json:"role"`
	Email    string          `json:"email,omitempty"`
	FullName string          `json:"fullName,omitempty"`
}

// AuthHandler exposes the caller identity. Tokens are issued by the account service.
type AuthHandler struct{}

// NewAuthHandler creates a new handler.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Me godoc
// @Summary Current user
// @Description Identity resolved from the access token
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, CurrentUser{
		UserID:   claims.UserID,
		ActorID:  claims.ActorID(),
		Role:     claims.Role,
		Email:    claims.Email,
		FullName: claims.FullName,
	}, nil)
}
