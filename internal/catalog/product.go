package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a read-only copy of a backend catalog entry.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      Category        `json:"category"`
	ImageURL      string          `json:"image_url"`
	InStock       bool            `json:"in_stock"`
	StockQuantity int             `json:"stock_quantity,omitempty"`
}

// FormatPrice renders an amount the way the storefront displays money.
func FormatPrice(d decimal.Decimal) string {
	return fmt.Sprintf("R$ %s", d.StringFixed(2))
}

// StockLabel is the badge text shown next to the price.
func (p Product) StockLabel() string {
	if p.InStock {
		return "Em estoque"
	}
	return "Fora de estoque"
}
