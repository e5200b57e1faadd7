package domain

import "time"

type DemoCenter struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	Address      string    `json:"address"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	// Slots are "YYYY-MM-DD HH:MM" strings managed by admins.
	AvailableSlots []string  `json:"available_slots"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func (c *DemoCenter) HasSlot(at time.Time) bool {
	want := at.Format("2006-01-02 15:04")
	for _, slot := range c.AvailableSlots {
		if slot == want {
			return true
		}
	}
	return false
}

type DemoRequestStatus string

const (
	DemoRequestRequested DemoRequestStatus = "requested"
	DemoRequestScheduled DemoRequestStatus = "scheduled"
	DemoRequestCompleted DemoRequestStatus = "completed"
	DemoRequestCancelled DemoRequestStatus = "cancelled"
)

type DemoRequest struct {
	ID                  string            `json:"id"`
	RFPID               string            `json:"rfp_id,omitempty"`
	UserID              string            `json:"user_id"`
	PreferredLocation   string            `json:"preferred_location"`
	PreferredDate       *time.Time        `json:"preferred_date,omitempty"`
	SpecialRequirements string            `json:"special_requirements,omitempty"`
	Status              DemoRequestStatus `json:"status"`
	ScheduledCenterID   string            `json:"scheduled_center_id,omitempty"`
	ScheduledAt         *time.Time        `json:"scheduled_datetime,omitempty"`
	AdminNotes          string            `json:"admin_notes,omitempty"`
	ClientFeedback      string            `json:"client_feedback,omitempty"`
	FinalDecision       string            `json:"final_decision,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
}
