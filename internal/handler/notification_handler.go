package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/talent-factory-api/internal/models"
	"github.com/noah-isme/talent-factory-api/internal/service"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
	"github.com/noah-isme/talent-factory-api/pkg/response"
)

type notificationInbox interface {
	Inbox(recipientID string) []models.Notification
}

// NotificationHandler lists delivered workflow notifications.
type NotificationHandler struct {
	inbox notificationInbox
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(inbox notificationInbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// Inbox godoc
// @Summary Notifications for the current user
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) Inbox(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	recipient := claims.ActorID()
	if claims.Role.IsPlatformAdmin() {
		recipient = service.PlatformReviewerID
	}
	items := h.inbox.Inbox(recipient)
	if items == nil {
		items = []models.Notification{}
	}
	response.JSON(c, http.StatusOK, items, nil)
}
