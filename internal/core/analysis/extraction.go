package analysis

import (
	"context"
	"log/slog"

	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/core/ports"
)

// ExtractionStage maps free-form RFP text onto the internal product schema
// and shortlists matching SKUs, grounded on the product catalog.
type ExtractionStage struct {
	llm ports.CompletionClient
}

func NewExtractionStage(llm ports.CompletionClient) *ExtractionStage {
	return &ExtractionStage{llm: llm}
}

// Extract never fails outward. Completion errors and malformed model output
// both degrade to a zero-score result with every attribute set to the
// "Error" sentinel.
func (s *ExtractionStage) Extract(ctx context.Context, rfpText, catalog string) domain.ExtractionResult {
	raw, err := s.llm.Complete(ctx, extractionPrompt(rfpText, catalog))
	if err != nil {
		slog.Warn("extraction_completion_failed", "error", err)
		return degradedExtraction()
	}

	result, err := parseExtraction(raw)
	if err != nil {
		slog.Warn("extraction_parse_failed", "error", err)
		return degradedExtraction()
	}
	return result
}

func degradedExtraction() domain.ExtractionResult {
	return domain.ExtractionResult{
		Specification: domain.UniformSpecification(domain.SpecStageError),
		MatchedSKUs:   []string{},
		MatchScore:    0,
	}
}
