package analysis

import (
	"context"
	"log/slog"

	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/core/ports"
)

// PricingStage turns matched SKUs and an extracted specification into a
// commercial bid, grounded on the pricing catalog. It trusts the model's
// arithmetic; only the requested margin is supplied by us.
type PricingStage struct {
	llm ports.CompletionClient
}

func NewPricingStage(llm ports.CompletionClient) *PricingStage {
	return &PricingStage{llm: llm}
}

// Price never fails outward; any invocation or parse failure yields the
// minimal degraded bid (margin 0, bid value 0).
func (s *PricingStage) Price(ctx context.Context, matchedSKUs []string, spec domain.ExtractedSpecification, catalog string) domain.PricingResult {
	raw, err := s.llm.Complete(ctx, pricingPrompt(matchedSKUs, spec, catalog))
	if err != nil {
		slog.Warn("pricing_completion_failed", "error", err)
		return degradedPricing()
	}

	result, err := parsePricing(raw)
	if err != nil {
		slog.Warn("pricing_parse_failed", "error", err)
		return degradedPricing()
	}
	return result
}

func degradedPricing() domain.PricingResult {
	return domain.PricingResult{
		Breakdown: domain.CostBreakdown{AppliedFees: []string{}},
		Margin:    0,
		Currency:  "USD",
	}
}
