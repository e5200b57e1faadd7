package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/core/ports"
)

// ImportReport summarizes one price book import.
type ImportReport struct {
	Products int `json:"products"`
	Tests    int `json:"tests"`
	Skipped  int `json:"skipped"`
}

// ImportXLSX loads a price book workbook into the repository. Sheet
// "Products" carries sku_id, sku_name, base_unit_price, currency; sheet
// "Tests" carries test_code, test_name, test_price, currency. The first row
// of each sheet is a header. Rows that do not parse are skipped, not fatal.
func ImportXLSX(ctx context.Context, prices ports.PriceRepository, src io.Reader) (ImportReport, error) {
	var report ImportReport

	book, err := excelize.OpenReader(src)
	if err != nil {
		return report, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	productRows, err := book.GetRows("Products")
	if err != nil {
		return report, fmt.Errorf("read Products sheet: %w", err)
	}
	for _, row := range dataRows(productRows) {
		if len(row) < 3 {
			report.Skipped++
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil {
			report.Skipped++
			continue
		}
		product := domain.ProductPrice{
			SKUID:         strings.TrimSpace(row[0]),
			SKUName:       strings.TrimSpace(row[1]),
			BaseUnitPrice: price,
			Currency:      cellOrDefault(row, 3, "USD"),
		}
		if product.SKUID == "" {
			report.Skipped++
			continue
		}
		if err := prices.UpsertProductPrice(ctx, &product); err != nil {
			return report, fmt.Errorf("upsert product %s: %w", product.SKUID, err)
		}
		report.Products++
	}

	testRows, err := book.GetRows("Tests")
	if err != nil {
		// The Tests sheet is optional.
		return report, nil
	}
	for _, row := range dataRows(testRows) {
		if len(row) < 3 {
			report.Skipped++
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil {
			report.Skipped++
			continue
		}
		test := domain.TestPrice{
			TestCode:  strings.TrimSpace(row[0]),
			TestName:  strings.TrimSpace(row[1]),
			TestPrice: price,
			Currency:  cellOrDefault(row, 3, "USD"),
		}
		if test.TestCode == "" {
			report.Skipped++
			continue
		}
		if err := prices.UpsertTestPrice(ctx, &test); err != nil {
			return report, fmt.Errorf("upsert test %s: %w", test.TestCode, err)
		}
		report.Tests++
	}

	return report, nil
}

func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}

func cellOrDefault(row []string, idx int, fallback string) string {
	if idx < len(row) {
		if v := strings.TrimSpace(row[idx]); v != "" {
			return v
		}
	}
	return fallback
}
