package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/core/ports"
)

// SubmitRFPInput carries everything a client sends when registering an RFP.
// Attachment is optional.
type SubmitRFPInput struct {
	UserID         string
	Title          string
	Description    string
	ProjectType    string
	Budget         decimal.Decimal
	DueDate        *time.Time
	AttachmentName string
	Attachment     io.Reader
}

type SubmitRFPUseCase struct {
	rfps    ports.RFPRepository
	storage ports.ObjectStorage
	queue   ports.AnalysisQueue
}

func NewSubmitRFPUseCase(rfps ports.RFPRepository, storage ports.ObjectStorage, queue ports.AnalysisQueue) *SubmitRFPUseCase {
	return &SubmitRFPUseCase{rfps: rfps, storage: storage, queue: queue}
}

// Execute persists the RFP and enqueues it for analysis. A queue outage does
// not fail the submission: the RFP stays pending and the worker sweep picks
// it up later.
func (uc *SubmitRFPUseCase) Execute(ctx context.Context, input SubmitRFPInput) (*domain.RFP, error) {
	if err := validateSubmission(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rfp := &domain.RFP{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		ProjectType: input.ProjectType,
		Budget:      input.Budget,
		DueDate:     input.DueDate,
		Status:      domain.RFPStatusSubmitted,
		AgentStatus: domain.AgentStatusPending,
		DemoStatus:  domain.DemoStatusNone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.Attachment != nil && input.AttachmentName != "" {
		key := storageKey(rfp.ID, input.AttachmentName)
		if err := uc.storage.Save(ctx, key, input.Attachment); err != nil {
			return nil, fmt.Errorf("store attachment: %w", err)
		}
		rfp.AttachmentPath = key
	}

	if err := uc.rfps.Create(ctx, rfp); err != nil {
		return nil, fmt.Errorf("create rfp: %w", err)
	}

	if err := uc.queue.PublishAnalysisRequested(ctx, rfp.ID); err != nil {
		slog.Warn("analysis_enqueue_failed", "rfp_id", rfp.ID, "error", err)
	}

	return rfp, nil
}

func validateSubmission(input SubmitRFPInput) error {
	op := "submit rfp"
	if strings.TrimSpace(input.Title) == "" {
		return domain.WrapError(domain.ErrInvalidInput, op, errors.New("title is required"))
	}
	if input.UserID == "" {
		return domain.WrapError(domain.ErrInvalidInput, op, errors.New("user id is required"))
	}
	if input.Budget.Sign() < 0 {
		return domain.WrapError(domain.ErrInvalidInput, op, errors.New("budget cannot be negative"))
	}
	if input.DueDate != nil && input.DueDate.Before(time.Now()) {
		return domain.WrapError(domain.ErrInvalidInput, op, errors.New("due date is in the past"))
	}
	return nil
}

func storageKey(rfpID, filename string) string {
	return path.Join("rfps", rfpID, path.Base(filename))
}
