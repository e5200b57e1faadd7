package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/core/ports"
)

// Orchestrator runs the full RFP analysis pipeline: qualification gate,
// specification extraction, pricing, then scoring and recommendation.
//
// Analyze never returns an error and never panics outward. Partial failures
// degrade stage by stage; a total failure yields the fixed fallback result so
// callers always persist something reviewable.
type Orchestrator struct {
	extraction *ExtractionStage
	pricing    *PricingStage
	gate       *Gate
	catalogs   ports.CatalogProvider
}

func NewOrchestrator(llm ports.CompletionClient, catalogs ports.CatalogProvider, rules ports.RuleProvider) *Orchestrator {
	return &Orchestrator{
		extraction: NewExtractionStage(llm),
		pricing:    NewPricingStage(llm),
		gate:       NewGate(rules),
		catalogs:   catalogs,
	}
}

// CheckQualification exposes the gate verdict without running the pipeline.
func (o *Orchestrator) CheckQualification(ctx context.Context, input domain.AnalysisInput) domain.QualificationVerdict {
	return o.gate.Check(ctx, input)
}

// Analyze produces a complete AnalysisResult for the given input. When
// checkConstraints is false the qualification gate is skipped (re-analysis of
// an already accepted RFP).
func (o *Orchestrator) Analyze(ctx context.Context, input domain.AnalysisInput, checkConstraints bool) (result domain.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("analysis_panic", "rfp_title", input.Title, "panic", r)
			result = fallbackAnalysisResult()
		}
	}()

	if checkConstraints {
		if verdict := o.gate.Check(ctx, input); !verdict.Qualified {
			slog.Info("rfp_disqualified", "rfp_title", input.Title, "reason", verdict.Reason)
			return disqualifiedResult(verdict.Reason)
		}
	}

	rfpText := fmt.Sprintf("Title: %s\nDescription: %s", input.Title, input.Description)

	extraction := o.extraction.Extract(ctx, rfpText, o.catalogs.LoadCatalog(ctx, CatalogSKU))
	pricing := o.pricing.Price(ctx, extraction.MatchedSKUs, extraction.Specification, o.catalogs.LoadCatalog(ctx, CatalogPricing))

	winProbability := WinProbability(extraction.MatchScore, pricing.Margin)
	label, reason := Recommendation(winProbability, extraction.MatchScore)

	return domain.AnalysisResult{
		MatchScore:           extraction.MatchScore,
		Specification:        extraction.Specification,
		MatchedSKUs:          extraction.MatchedSKUs,
		Pricing:              pricing,
		WinProbability:       winProbability,
		Recommendation:       label,
		RecommendationReason: reason,
		Suggestions:          Suggestions(extraction.MatchScore, winProbability),
		AgentStatus:          domain.AgentStatusCompleted,
	}
}

// fallbackAnalysisResult is the single result shape used when the pipeline
// itself fails. Mid-range scores flag the RFP for human attention without
// auto-rejecting it.
func fallbackAnalysisResult() domain.AnalysisResult {
	return domain.AnalysisResult{
		MatchScore:    50,
		Specification: domain.UniformSpecification(domain.SpecAnalysisFailed),
		MatchedSKUs:   []string{},
		Pricing: domain.PricingResult{
			Breakdown: domain.CostBreakdown{
				MaterialCost: decimal.Zero,
				ServiceFees:  decimal.Zero,
				AppliedFees:  []string{},
			},
			TotalCost:     decimal.Zero,
			TotalBidValue: decimal.Zero,
			Margin:        defaultMarginPercent,
			Currency:      "USD",
		},
		WinProbability:       45,
		Recommendation:       "REVIEW - Low confidence",
		RecommendationReason: "AI analysis failed, using fallback values. Manual review recommended.",
		Suggestions: []string{
			"Re-run AI analysis when service is available",
			"Manually review RFP requirements against company capabilities",
		},
		AgentStatus: domain.AgentStatusCompleted,
	}
}

// disqualifiedResult is returned when the gate rejects an RFP; no model call
// is made.
func disqualifiedResult(reason string) domain.AnalysisResult {
	return domain.AnalysisResult{
		MatchScore:  0,
		MatchedSKUs: []string{},
		Pricing: domain.PricingResult{
			Breakdown: domain.CostBreakdown{
				MaterialCost: decimal.Zero,
				ServiceFees:  decimal.Zero,
				AppliedFees:  []string{},
			},
			TotalCost:     decimal.Zero,
			TotalBidValue: decimal.Zero,
			Margin:        0,
			Currency:      "USD",
		},
		WinProbability:       0,
		Recommendation:       "REJECT - Does not meet qualification criteria",
		RecommendationReason: reason,
		Suggestions: []string{
			"Review qualification criteria with admin",
			"Consider adjusting RFP requirements",
		},
		AgentStatus: domain.AgentStatusCompleted,
	}
}
