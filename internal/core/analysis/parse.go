package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

// defaultMarginPercent is the margin the pricing prompt requests and the
// value assumed when the model omits one. Percent, not fraction.
const defaultMarginPercent = 20

// ParseError signals that model output did not match the expected shape.
// Stages funnel it into their degraded-result path.
type ParseError struct {
	Stage  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s response: %s", e.Stage, e.Reason)
}

// stripCodeFences removes markdown code-fence decoration the model may wrap
// around the JSON it was asked for, then narrows to the first balanced
// top-level object.
func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if obj, ok := firstJSONObject(cleaned); ok {
		return obj
	}
	return cleaned
}

// firstJSONObject finds the first outermost balanced {...}.
func firstJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]

		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

var specAttributes = []string{
	"product_type",
	"voltage_rating",
	"material",
	"durability_rating",
	"compliance_standards",
}

func parseExtraction(raw string) (domain.ExtractionResult, error) {
	const stage = "extraction"

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &payload); err != nil {
		return domain.ExtractionResult{}, &ParseError{Stage: stage, Reason: "not a JSON object"}
	}

	specsRaw, ok := payload["standardized_specs"]
	if !ok {
		return domain.ExtractionResult{}, &ParseError{Stage: stage, Reason: "missing standardized_specs"}
	}
	var specFields map[string]string
	if err := json.Unmarshal(specsRaw, &specFields); err != nil {
		return domain.ExtractionResult{}, &ParseError{Stage: stage, Reason: "standardized_specs is not a string map"}
	}
	for _, attr := range specAttributes {
		value, present := specFields[attr]
		if !present {
			return domain.ExtractionResult{}, &ParseError{Stage: stage, Reason: "missing attribute " + attr}
		}
		if strings.TrimSpace(value) == "" {
			specFields[attr] = domain.SpecNotSpecified
		}
	}

	scoreRaw, ok := payload["spec_match_score"]
	if !ok {
		return domain.ExtractionResult{}, &ParseError{Stage: stage, Reason: "missing spec_match_score"}
	}
	var score float64
	if err := json.Unmarshal(scoreRaw, &score); err != nil {
		return domain.ExtractionResult{}, &ParseError{Stage: stage, Reason: "spec_match_score is not a number"}
	}

	skusRaw, ok := payload["matched_skus"]
	if !ok {
		return domain.ExtractionResult{}, &ParseError{Stage: stage, Reason: "missing matched_skus"}
	}
	var skus []string
	if err := json.Unmarshal(skusRaw, &skus); err != nil {
		return domain.ExtractionResult{}, &ParseError{Stage: stage, Reason: "matched_skus is not a string list"}
	}
	if skus == nil {
		skus = []string{}
	}

	var reasoning string
	if r, ok := payload["match_reasoning"]; ok {
		_ = json.Unmarshal(r, &reasoning)
	}

	return domain.ExtractionResult{
		Specification: domain.ExtractedSpecification{
			ProductType:         specFields["product_type"],
			VoltageRating:       specFields["voltage_rating"],
			Material:            specFields["material"],
			DurabilityRating:    specFields["durability_rating"],
			ComplianceStandards: specFields["compliance_standards"],
		},
		MatchedSKUs: skus,
		MatchScore:  clamp(score, 0, 100),
		Reasoning:   reasoning,
	}, nil
}

func parsePricing(raw string) (domain.PricingResult, error) {
	const stage = "pricing"

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &payload); err != nil {
		return domain.PricingResult{}, &ParseError{Stage: stage, Reason: "not a JSON object"}
	}

	breakdownRaw, ok := payload["breakdown"]
	if !ok {
		return domain.PricingResult{}, &ParseError{Stage: stage, Reason: "missing breakdown"}
	}
	var breakdown struct {
		MaterialCost *decimal.Decimal `json:"material_cost"`
		ServiceFees  *decimal.Decimal `json:"service_fees"`
		AppliedFees  []string         `json:"applied_fees_list"`
	}
	if err := json.Unmarshal(breakdownRaw, &breakdown); err != nil {
		return domain.PricingResult{}, &ParseError{Stage: stage, Reason: "breakdown has unexpected shape"}
	}
	if breakdown.MaterialCost == nil || breakdown.ServiceFees == nil {
		return domain.PricingResult{}, &ParseError{Stage: stage, Reason: "breakdown missing cost fields"}
	}
	if breakdown.AppliedFees == nil {
		breakdown.AppliedFees = []string{}
	}

	totalCost, err := requireDecimal(payload, "total_cost_internal", stage)
	if err != nil {
		return domain.PricingResult{}, err
	}
	bidValue, err := requireDecimal(payload, "total_bid_value", stage)
	if err != nil {
		return domain.PricingResult{}, err
	}

	// The model is asked for a fixed margin; when it drops the field we
	// assume the requested one rather than rejecting the whole bid.
	margin := float64(defaultMarginPercent)
	if marginRaw, ok := payload["margin"]; ok {
		if err := json.Unmarshal(marginRaw, &margin); err != nil {
			return domain.PricingResult{}, &ParseError{Stage: stage, Reason: "margin is not a number"}
		}
	}

	currency := "USD"
	if currencyRaw, ok := payload["currency"]; ok {
		if err := json.Unmarshal(currencyRaw, &currency); err != nil || strings.TrimSpace(currency) == "" {
			currency = "USD"
		}
	}

	return domain.PricingResult{
		Breakdown: domain.CostBreakdown{
			MaterialCost: *breakdown.MaterialCost,
			ServiceFees:  *breakdown.ServiceFees,
			AppliedFees:  breakdown.AppliedFees,
		},
		TotalCost:     totalCost,
		TotalBidValue: bidValue,
		Margin:        margin,
		Currency:      currency,
	}, nil
}

func requireDecimal(payload map[string]json.RawMessage, key, stage string) (decimal.Decimal, error) {
	raw, ok := payload[key]
	if !ok {
		return decimal.Decimal{}, &ParseError{Stage: stage, Reason: "missing " + key}
	}
	var value decimal.Decimal
	if err := json.Unmarshal(raw, &value); err != nil {
		return decimal.Decimal{}, &ParseError{Stage: stage, Reason: key + " is not a number"}
	}
	return value, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
