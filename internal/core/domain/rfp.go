package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RFPStatus string

const (
	RFPStatusDraft     RFPStatus = "draft"
	RFPStatusSubmitted RFPStatus = "submitted"
)

// AgentStatus tracks where an RFP sits in the analysis lifecycle.
type AgentStatus string

const (
	AgentStatusIdle       AgentStatus = "idle"
	AgentStatusPending    AgentStatus = "pending"
	AgentStatusProcessing AgentStatus = "processing"
	AgentStatusCompleted  AgentStatus = "completed"
	AgentStatusFailed     AgentStatus = "failed"
)

type DemoStatus string

const (
	DemoStatusNone      DemoStatus = "none"
	DemoStatusRequested DemoStatus = "requested"
	DemoStatusScheduled DemoStatus = "scheduled"
	DemoStatusCompleted DemoStatus = "completed"
	DemoStatusAccepted  DemoStatus = "accepted"
	DemoStatusRejected  DemoStatus = "rejected"
)

type RFP struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	ProjectType    string          `json:"project_type,omitempty"`
	Budget         decimal.Decimal `json:"approximate_budget"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	AttachmentPath string          `json:"attachment_path,omitempty"`
	AttachmentText string          `json:"-"`
	Status         RFPStatus       `json:"status"`
	AgentStatus    AgentStatus     `json:"agent_status"`
	DemoStatus     DemoStatus      `json:"demo_status"`

	Analysis *AnalysisResult `json:"analysis,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AnalysisInput is the slice of an RFP the pipeline reads. It carries no
// identity; the caller owns persistence of whatever comes back.
type AnalysisInput struct {
	Title       string
	Description string
	Budget      decimal.Decimal
	DueDate     *time.Time
	ClientType  string
}

func (r *RFP) AnalysisInput() AnalysisInput {
	text := r.Description
	if r.AttachmentText != "" {
		text = text + "\n\nAttachment:\n" + r.AttachmentText
	}
	return AnalysisInput{
		Title:       r.Title,
		Description: text,
		Budget:      r.Budget,
		DueDate:     r.DueDate,
	}
}
