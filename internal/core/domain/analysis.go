package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sentinel values the pipeline writes into specification fields when it
// cannot produce real ones. Dashboards key off these strings.
const (
	SpecNotSpecified   = "Not Specified"
	SpecStageError     = "Error"
	SpecAnalysisFailed = "Analysis Failed"
)

// ExtractedSpecification maps the five attributes of the internal product
// schema. A successful extraction always populates all five, falling back to
// the "Not Specified" sentinel per attribute.
type ExtractedSpecification struct {
	ProductType         string `json:"product_type,omitempty"`
	VoltageRating       string `json:"voltage_rating,omitempty"`
	Material            string `json:"material,omitempty"`
	DurabilityRating    string `json:"durability_rating,omitempty"`
	ComplianceStandards string `json:"compliance_standards,omitempty"`
}

func (s ExtractedSpecification) IsZero() bool {
	return s == ExtractedSpecification{}
}

// UniformSpecification returns a specification with every attribute set to value.
func UniformSpecification(value string) ExtractedSpecification {
	return ExtractedSpecification{
		ProductType:         value,
		VoltageRating:       value,
		Material:            value,
		DurabilityRating:    value,
		ComplianceStandards: value,
	}
}

type ExtractionResult struct {
	Specification ExtractedSpecification `json:"standardized_specs"`
	MatchedSKUs   []string               `json:"matched_skus"`
	MatchScore    float64                `json:"spec_match_score"`
	Reasoning     string                 `json:"match_reasoning,omitempty"`
}

type CostBreakdown struct {
	MaterialCost decimal.Decimal `json:"material_cost"`
	ServiceFees  decimal.Decimal `json:"service_fees"`
	AppliedFees  []string        `json:"applied_fees_list"`
}

type PricingResult struct {
	Breakdown     CostBreakdown   `json:"breakdown"`
	TotalCost     decimal.Decimal `json:"total_cost_internal"`
	TotalBidValue decimal.Decimal `json:"total_bid_value"`
	Margin        float64         `json:"margin"`
	Currency      string          `json:"currency"`
}

type QualificationVerdict struct {
	Qualified bool   `json:"qualified"`
	Reason    string `json:"reason"`
}

// AnalysisResult is the single value the pipeline hands back. It is always
// structurally complete: every code path, including total failure, fills
// every field so the caller can persist it and move on.
type AnalysisResult struct {
	MatchScore           float64                `json:"spec_match_score"`
	Specification        ExtractedSpecification `json:"extracted_specs"`
	MatchedSKUs          []string               `json:"matched_skus"`
	Pricing              PricingResult          `json:"financial_analysis"`
	WinProbability       float64                `json:"win_probability"`
	Recommendation       string                 `json:"recommendation"`
	RecommendationReason string                 `json:"recommendation_reason"`
	Suggestions          []string               `json:"suggestions"`
	AgentStatus          AgentStatus            `json:"agent_status"`
}

// Accepted reports whether the recommendation clears the bar for moving the
// RFP into the demo workflow.
func (r AnalysisResult) Accepted() bool {
	return strings.HasPrefix(r.Recommendation, "SELECT") || strings.HasPrefix(r.Recommendation, "CONSIDER")
}
