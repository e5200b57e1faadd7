package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/core/ports"
)

// DemoUseCase handles the demo lifecycle: client request, admin scheduling,
// completion with client feedback and a final decision.
type DemoUseCase struct {
	demos         ports.DemoRepository
	rfps          ports.RFPRepository
	notifications ports.NotificationRepository
}

func NewDemoUseCase(demos ports.DemoRepository, rfps ports.RFPRepository, notifications ports.NotificationRepository) *DemoUseCase {
	return &DemoUseCase{demos: demos, rfps: rfps, notifications: notifications}
}

type RequestDemoInput struct {
	UserID              string
	RFPID               string
	PreferredLocation   string
	PreferredDate       *time.Time
	SpecialRequirements string
}

func (uc *DemoUseCase) Request(ctx context.Context, input RequestDemoInput) (*domain.DemoRequest, error) {
	op := "request demo"
	if input.UserID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, op, errors.New("user id is required"))
	}

	if input.RFPID != "" {
		rfp, err := uc.rfps.GetOwned(ctx, input.RFPID, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("verify rfp ownership: %w", err)
		}
		if existing, err := uc.demos.GetRequestByRFP(ctx, rfp.ID); err == nil && existing != nil {
			return nil, domain.WrapError(domain.ErrConflict, op, errors.New("demo already requested for rfp"))
		}
	}

	req := &domain.DemoRequest{
		ID:                  uuid.NewString(),
		RFPID:               input.RFPID,
		UserID:              input.UserID,
		PreferredLocation:   input.PreferredLocation,
		PreferredDate:       input.PreferredDate,
		SpecialRequirements: input.SpecialRequirements,
		Status:              domain.DemoRequestRequested,
		CreatedAt:           time.Now().UTC(),
	}
	if err := uc.demos.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("create demo request: %w", err)
	}
	if input.RFPID != "" {
		if err := uc.rfps.UpdateDemoStatus(ctx, input.RFPID, domain.DemoStatusRequested); err != nil {
			slog.Warn("demo_status_update_failed", "rfp_id", input.RFPID, "error", err)
		}
	}
	return req, nil
}

type ScheduleDemoInput struct {
	RequestID  string
	CenterID   string
	At         time.Time
	AdminNotes string
}

// Schedule books a demo into a center slot. The slot must be one the center
// advertises.
func (uc *DemoUseCase) Schedule(ctx context.Context, input ScheduleDemoInput) (*domain.DemoRequest, error) {
	op := "schedule demo"

	req, err := uc.demos.GetRequest(ctx, input.RequestID)
	if err != nil {
		return nil, fmt.Errorf("fetch demo request: %w", err)
	}
	if req.Status != domain.DemoRequestRequested {
		return nil, domain.WrapError(domain.ErrConflict, op, fmt.Errorf("request is %s", req.Status))
	}

	center, err := uc.demos.GetCenter(ctx, input.CenterID)
	if err != nil {
		return nil, fmt.Errorf("fetch demo center: %w", err)
	}
	if !center.IsActive {
		return nil, domain.WrapError(domain.ErrInvalidInput, op, errors.New("center is not active"))
	}
	if !center.HasSlot(input.At) {
		return nil, domain.WrapError(domain.ErrInvalidInput, op, errors.New("requested slot is not available"))
	}

	at := input.At
	req.Status = domain.DemoRequestScheduled
	req.ScheduledCenterID = center.ID
	req.ScheduledAt = &at
	req.AdminNotes = input.AdminNotes
	if err := uc.demos.UpdateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("update demo request: %w", err)
	}

	if req.RFPID != "" {
		if err := uc.rfps.UpdateDemoStatus(ctx, req.RFPID, domain.DemoStatusScheduled); err != nil {
			slog.Warn("demo_status_update_failed", "rfp_id", req.RFPID, "error", err)
		}
	}

	uc.notify(ctx, req.UserID, req.RFPID,
		fmt.Sprintf("Demo scheduled at %s on %s", center.Name, at.Format("2006-01-02 15:04")))

	return req, nil
}

type CompleteDemoInput struct {
	RequestID      string
	UserID         string
	ClientFeedback string
	FinalDecision  string
}

// Complete records client feedback and the final accept/reject decision for
// a scheduled demo.
func (uc *DemoUseCase) Complete(ctx context.Context, input CompleteDemoInput) (*domain.DemoRequest, error) {
	op := "complete demo"

	req, err := uc.demos.GetRequest(ctx, input.RequestID)
	if err != nil {
		return nil, fmt.Errorf("fetch demo request: %w", err)
	}
	if req.UserID != input.UserID {
		return nil, domain.WrapError(domain.ErrUnauthorized, op, errors.New("request belongs to another user"))
	}
	if req.Status != domain.DemoRequestScheduled {
		return nil, domain.WrapError(domain.ErrConflict, op, fmt.Errorf("request is %s", req.Status))
	}

	decision, err := parseDecision(input.FinalDecision)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, op, err)
	}

	req.Status = domain.DemoRequestCompleted
	req.ClientFeedback = input.ClientFeedback
	req.FinalDecision = input.FinalDecision
	if err := uc.demos.UpdateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("update demo request: %w", err)
	}

	if req.RFPID != "" {
		if err := uc.rfps.UpdateDemoStatus(ctx, req.RFPID, decision); err != nil {
			slog.Warn("demo_status_update_failed", "rfp_id", req.RFPID, "error", err)
		}
	}
	return req, nil
}

func parseDecision(decision string) (domain.DemoStatus, error) {
	switch decision {
	case "accepted":
		return domain.DemoStatusAccepted, nil
	case "rejected":
		return domain.DemoStatusRejected, nil
	default:
		return "", fmt.Errorf("final decision must be accepted or rejected, got %q", decision)
	}
}

func (uc *DemoUseCase) notify(ctx context.Context, userID, rfpID, message string) {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		RFPID:     rfpID,
		Message:   message,
		Type:      domain.NotificationDemoScheduled,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.notifications.Create(ctx, n); err != nil {
		slog.Warn("notification_create_failed", "user_id", userID, "error", err)
	}
}
