package domain

import "time"

type NotificationType string

const (
	NotificationAIResult      NotificationType = "ai_result"
	NotificationDemoRequest   NotificationType = "demo_request"
	NotificationDemoScheduled NotificationType = "demo_scheduled"
	NotificationSystem        NotificationType = "system"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	RFPID     string           `json:"rfp_id,omitempty"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
