package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/core/ports"
)

// AnalyzeRFPUseCase drives one RFP through the pipeline and persists the
// outcome. The pipeline itself never fails; only persistence can, and a
// persistence failure marks the RFP failed so the sweep can retry it.
type AnalyzeRFPUseCase struct {
	rfps          ports.RFPRepository
	analyzer      ports.Analyzer
	extractor     ports.AttachmentExtractor
	demos         ports.DemoRepository
	notifications ports.NotificationRepository
}

func NewAnalyzeRFPUseCase(
	rfps ports.RFPRepository,
	analyzer ports.Analyzer,
	extractor ports.AttachmentExtractor,
	demos ports.DemoRepository,
	notifications ports.NotificationRepository,
) *AnalyzeRFPUseCase {
	return &AnalyzeRFPUseCase{
		rfps:          rfps,
		analyzer:      analyzer,
		extractor:     extractor,
		demos:         demos,
		notifications: notifications,
	}
}

func (uc *AnalyzeRFPUseCase) ProcessByID(ctx context.Context, rfpID string) error {
	rfp, err := uc.rfps.GetByID(ctx, rfpID)
	if err != nil {
		return fmt.Errorf("fetch rfp by id: %w", err)
	}

	if err := uc.rfps.UpdateAgentStatus(ctx, rfpID, domain.AgentStatusProcessing); err != nil {
		return fmt.Errorf("set agent status=processing: %w", err)
	}

	uc.attachAttachmentText(ctx, rfp)

	// Constraints are re-checked only on first analysis; a re-run of an
	// already analyzed RFP goes straight to the pipeline.
	checkConstraints := rfp.Analysis == nil
	result := uc.analyzer.Analyze(ctx, rfp.AnalysisInput(), checkConstraints)

	if err := uc.rfps.SaveAnalysis(ctx, rfpID, result); err != nil {
		if failErr := uc.rfps.UpdateAgentStatus(ctx, rfpID, domain.AgentStatusFailed); failErr != nil {
			return fmt.Errorf("save analysis: %w; mark failed status: %v", err, failErr)
		}
		return fmt.Errorf("save analysis: %w", err)
	}

	uc.notify(ctx, rfp.UserID, rfpID, domain.NotificationAIResult,
		fmt.Sprintf("AI analysis completed for %q: %s", rfp.Title, result.Recommendation))

	if result.Accepted() {
		uc.openDemoRequest(ctx, rfp)
	}

	return nil
}

func (uc *AnalyzeRFPUseCase) attachAttachmentText(ctx context.Context, rfp *domain.RFP) {
	if rfp.AttachmentPath == "" || rfp.AttachmentText != "" {
		return
	}
	text, err := uc.extractor.Extract(ctx, rfp.AttachmentPath)
	if err != nil {
		slog.Warn("attachment_extract_failed", "rfp_id", rfp.ID, "error", err)
		return
	}
	rfp.AttachmentText = text
}

// openDemoRequest moves an accepted RFP into the demo workflow. Best effort:
// failures are logged, the analysis result is already saved.
func (uc *AnalyzeRFPUseCase) openDemoRequest(ctx context.Context, rfp *domain.RFP) {
	if existing, err := uc.demos.GetRequestByRFP(ctx, rfp.ID); err == nil && existing != nil {
		return
	}

	center, err := uc.demos.FirstActiveCenter(ctx)
	if err != nil {
		slog.Warn("demo_center_lookup_failed", "rfp_id", rfp.ID, "error", err)
		return
	}

	req := &domain.DemoRequest{
		ID:                uuid.NewString(),
		RFPID:             rfp.ID,
		UserID:            rfp.UserID,
		PreferredLocation: center.Location,
		Status:            domain.DemoRequestRequested,
		CreatedAt:         time.Now().UTC(),
	}
	if err := uc.demos.CreateRequest(ctx, req); err != nil {
		slog.Warn("demo_request_create_failed", "rfp_id", rfp.ID, "error", err)
		return
	}
	if err := uc.rfps.UpdateDemoStatus(ctx, rfp.ID, domain.DemoStatusRequested); err != nil {
		slog.Warn("demo_status_update_failed", "rfp_id", rfp.ID, "error", err)
	}

	uc.notify(ctx, rfp.UserID, rfp.ID, domain.NotificationDemoRequest,
		fmt.Sprintf("Demo requested for %q at %s", rfp.Title, center.Name))
}

func (uc *AnalyzeRFPUseCase) notify(ctx context.Context, userID, rfpID string, kind domain.NotificationType, message string) {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		RFPID:     rfpID,
		Message:   message,
		Type:      kind,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.notifications.Create(ctx, n); err != nil {
		slog.Warn("notification_create_failed", "user_id", userID, "error", err)
	}
}
