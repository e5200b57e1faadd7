package analysis

import (
	"fmt"
	"strings"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

// Names of the reference-data corpora the stages ground their prompts on.
const (
	CatalogSKU     = "sku_repository"
	CatalogPricing = "pricing_repository"
)

func extractionPrompt(rfpText, catalog string) string {
	return fmt.Sprintf(`You are an expert Industrial Technical Engineer.

OBJECTIVE:
Map the Client's RFP requirements to our Internal Data Schema.

--- INTERNAL ADMIN DATA SCHEMA (Our Attributes) ---
1. product_type (e.g., Widget, Cable, Gadget)
2. voltage_rating (e.g., 415V, 11kV)
3. material (e.g., Steel, Copper, XLPE)
4. durability_rating (e.g., Medium, High, IP67)
5. compliance_standards (e.g., ISO 9001, IEC 60502)

--- INTERNAL PRODUCT REPOSITORY (Reference Data) ---
%s
----------------------------------------------------

--- CLIENT RFP TEXT ---
%s
-----------------------

INSTRUCTIONS:
1. Read the Client RFP.
2. Extract values for the 5 Schema Attributes listed above. If not specified, use "Not Specified".
3. Compare these extracted values against the Repository to find the best matching SKU IDs.
4. Calculate a match score (0-100) based on how well the extracted specs match the repository SKUs. Consider exact matches, partial matches, and compatibility. For example, if voltage_rating matches exactly and compliance_standards overlap, give high score.

OUTPUT FORMAT (Raw JSON Only):
{
    "standardized_specs": {
        "product_type": "...",
        "voltage_rating": "...",
        "material": "...",
        "durability_rating": "...",
        "compliance_standards": "..."
    },
    "matched_skus": ["P00X", "P00Y"],
    "spec_match_score": 85.5,
    "match_reasoning": "Brief explanation of why these SKUs fit."
}`, catalog, rfpText)
}

func pricingPrompt(matchedSKUs []string, spec domain.ExtractedSpecification, catalog string) string {
	return fmt.Sprintf(`You are a Senior Pricing Analyst.

TASK: Generate a commercial bid based on our Admin Pricing Rules.

--- ADMIN PRICING REPOSITORY ---
%s
--------------------------------

INPUTS:
- Target SKUs: [%s]
- Client Specs: %s

INSTRUCTIONS:
1. Lookup Base Price for each SKU in the repository.
2. Apply 'Service Fees' if the Specs imply testing (e.g., if 'compliance_standards' mentions IEC, add IEC fees).
3. Calculate a Final Bid with a %d%% margin.

OUTPUT FORMAT (Raw JSON Only):
{
    "breakdown": {
        "material_cost": <float>,
        "service_fees": <float>,
        "applied_fees_list": ["Fee Name 1", "Fee Name 2"]
    },
    "total_cost_internal": <float>,
    "total_bid_value": <float>,
    "margin": <float percent>,
    "currency": "USD"
}`, catalog, strings.Join(matchedSKUs, ", "), describeSpecification(spec), defaultMarginPercent)
}

func describeSpecification(spec domain.ExtractedSpecification) string {
	return fmt.Sprintf(
		"product_type=%q voltage_rating=%q material=%q durability_rating=%q compliance_standards=%q",
		spec.ProductType, spec.VoltageRating, spec.Material, spec.DurabilityRating, spec.ComplianceStandards,
	)
}
