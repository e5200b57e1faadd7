package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

// PriceRepository holds the admin price book: SKU base prices and
// certification test fees. Upserts keyed on the business identifier so xlsx
// imports can be re-run.
type PriceRepository struct {
	db *sql.DB
}

func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

func (r *PriceRepository) ListProductPrices(ctx context.Context) ([]domain.ProductPrice, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT sku_id, sku_name, base_unit_price, currency FROM product_prices ORDER BY sku_id
`)
	if err != nil {
		return nil, fmt.Errorf("query product prices: %w", err)
	}
	defer rows.Close()

	var out []domain.ProductPrice
	for rows.Next() {
		var p domain.ProductPrice
		if err := rows.Scan(&p.SKUID, &p.SKUName, &p.BaseUnitPrice, &p.Currency); err != nil {
			return nil, fmt.Errorf("scan product price: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product prices: %w", err)
	}
	return out, nil
}

func (r *PriceRepository) UpsertProductPrice(ctx context.Context, price *domain.ProductPrice) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO product_prices (sku_id, sku_name, base_unit_price, currency)
VALUES ($1,$2,$3,$4)
ON CONFLICT (sku_id) DO UPDATE SET sku_name = $2, base_unit_price = $3, currency = $4
`, price.SKUID, price.SKUName, price.BaseUnitPrice, price.Currency)
	if err != nil {
		return fmt.Errorf("upsert product price: %w", err)
	}
	return nil
}

func (r *PriceRepository) DeleteProductPrice(ctx context.Context, skuID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM product_prices WHERE sku_id = $1`, skuID)
	if err != nil {
		return fmt.Errorf("delete product price: %w", err)
	}
	return requireRowAffected(res, "product price")
}

func (r *PriceRepository) ListTestPrices(ctx context.Context) ([]domain.TestPrice, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT test_code, test_name, test_price, currency FROM test_prices ORDER BY test_code
`)
	if err != nil {
		return nil, fmt.Errorf("query test prices: %w", err)
	}
	defer rows.Close()

	var out []domain.TestPrice
	for rows.Next() {
		var p domain.TestPrice
		if err := rows.Scan(&p.TestCode, &p.TestName, &p.TestPrice, &p.Currency); err != nil {
			return nil, fmt.Errorf("scan test price: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test prices: %w", err)
	}
	return out, nil
}

func (r *PriceRepository) UpsertTestPrice(ctx context.Context, price *domain.TestPrice) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO test_prices (test_code, test_name, test_price, currency)
VALUES ($1,$2,$3,$4)
ON CONFLICT (test_code) DO UPDATE SET test_name = $2, test_price = $3, currency = $4
`, price.TestCode, price.TestName, price.TestPrice, price.Currency)
	if err != nil {
		return fmt.Errorf("upsert test price: %w", err)
	}
	return nil
}

func (r *PriceRepository) DeleteTestPrice(ctx context.Context, testCode string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM test_prices WHERE test_code = $1`, testCode)
	if err != nil {
		return fmt.Errorf("delete test price: %w", err)
	}
	return requireRowAffected(res, "test price")
}
