package ports

import (
	"context"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

// Analyzer is the pipeline entry point exposed to the surrounding
// application. Analyze never returns an error: every failure mode inside the
// pipeline degrades to a structurally complete result.
type Analyzer interface {
	Analyze(ctx context.Context, input domain.AnalysisInput, checkConstraints bool) domain.AnalysisResult
	CheckQualification(ctx context.Context, input domain.AnalysisInput) domain.QualificationVerdict
}

// RFPProcessor runs the full analyze-and-persist flow for one RFP.
type RFPProcessor interface {
	ProcessByID(ctx context.Context, rfpID string) error
}
