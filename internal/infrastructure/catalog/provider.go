package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rfp-optimize/platform/internal/core/analysis"
	"github.com/rfp-optimize/platform/internal/core/ports"
)

// Provider renders the prompt reference corpora from the admin price book.
// LoadCatalog never fails: when the data cannot be read it returns a clearly
// marked placeholder so the pipeline can still build its prompt.
type Provider struct {
	prices ports.PriceRepository
}

func NewProvider(prices ports.PriceRepository) *Provider {
	return &Provider{prices: prices}
}

func (p *Provider) LoadCatalog(ctx context.Context, name string) string {
	var corpus string
	var err error
	switch name {
	case analysis.CatalogSKU:
		corpus, err = p.renderSKUCorpus(ctx)
	case analysis.CatalogPricing:
		corpus, err = p.renderPricingCorpus(ctx)
	default:
		err = fmt.Errorf("unknown catalog %q", name)
	}
	if err != nil {
		slog.Warn("catalog_load_failed", "catalog", name, "error", err)
		return fmt.Sprintf("Error: %s not found in Admin Knowledge Base.", name)
	}
	return corpus
}

func (p *Provider) renderSKUCorpus(ctx context.Context) (string, error) {
	products, err := p.prices.ListProductPrices(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("PRODUCT REPOSITORY\n")
	for _, product := range products {
		fmt.Fprintf(&b, "SKU: %s | Name: %s | Base Unit Price: %s %s\n",
			product.SKUID, product.SKUName, product.BaseUnitPrice.String(), product.Currency)
	}
	if len(products) == 0 {
		b.WriteString("(no products registered)\n")
	}
	return b.String(), nil
}

func (p *Provider) renderPricingCorpus(ctx context.Context) (string, error) {
	products, err := p.prices.ListProductPrices(ctx)
	if err != nil {
		return "", err
	}
	tests, err := p.prices.ListTestPrices(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("BASE PRICES\n")
	for _, product := range products {
		fmt.Fprintf(&b, "SKU: %s | %s | %s %s\n",
			product.SKUID, product.SKUName, product.BaseUnitPrice.String(), product.Currency)
	}
	b.WriteString("\nSERVICE FEES (TESTING AND CERTIFICATION)\n")
	for _, test := range tests {
		fmt.Fprintf(&b, "Test: %s | %s | %s %s\n",
			test.TestCode, test.TestName, test.TestPrice.String(), test.Currency)
	}
	if len(tests) == 0 {
		b.WriteString("(no test fees registered)\n")
	}
	return b.String(), nil
}
