package domain

import "github.com/shopspring/decimal"

// ProductPrice is one SKU row of the admin price book. The SKU id doubles as
// the primary key.
type ProductPrice struct {
	SKUID         string          `json:"sku_id"`
	SKUName       string          `json:"sku_name"`
	BaseUnitPrice decimal.Decimal `json:"base_unit_price"`
	Currency      string          `json:"currency"`
}

// TestPrice is one certification/testing fee row of the admin price book.
type TestPrice struct {
	TestCode  string          `json:"test_code"`
	TestName  string          `json:"test_name"`
	TestPrice decimal.Decimal `json:"test_price"`
	Currency  string          `json:"currency"`
}
