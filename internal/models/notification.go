package models

import "time"

// NotificationType names the event a recipient is told about.
type NotificationType string

const (
	NotificationNewApplication       NotificationType = "new-application"
	NotificationApplicationApproved  NotificationType = "application-approved"
	NotificationApplicationRejected  NotificationType = "application-rejected"
	NotificationApplicationWithdrawn NotificationType = "application-withdrawn"
)

// Notification is delivered to a single recipient after a workflow event.
type Notification struct {
	ID            string           `json:"id"`
	RecipientID   string           `json:"recipientId"`
	RecipientRole UserRole         `json:"recipientRole"`
	Type          NotificationType `json:"type"`
	ApplicationID string           `json:"applicationId"`
	Title         string           `json:"title"`
	Content       string           `json:"content"`
	CreatedAt     time.Time        `json:"createdAt"`
}
