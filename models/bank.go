package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Bank is a single row extracted from the source table: the institution name
// and its market capitalization in USD billions.
type Bank struct {
	Name         string
	MarketCapUSD decimal.Decimal
}

// RateTable maps a currency code to its multiplier relative to USD.
// Loaded once per run and treated as read-only afterwards.
type RateTable map[string]decimal.Decimal

// EnrichedBank is a Bank plus one derived market-cap value per configured
// currency, each rounded to 2 decimal places.
type EnrichedBank struct {
	Bank
	Converted map[string]decimal.Decimal
}

// Dataset is the ordered table handed from the transformer to both loaders.
// It must not be mutated after the transform completes; the file and database
// loaders read the same snapshot.
type Dataset struct {
	RunID      string
	Currencies []string
	Banks      []EnrichedBank
	CreatedAt  time.Time
}

// Header returns the output column names in order: the name column, the USD
// column, then one column per currency in configured order.
func (d *Dataset) Header() []string {
	cols := make([]string, 0, len(d.Currencies)+2)
	cols = append(cols, "Name", "MC_USD_Billion")
	for _, cur := range d.Currencies {
		cols = append(cols, fmt.Sprintf("MC_%s_Billion", cur))
	}
	return cols
}

// Record returns the values of row i in header order, decimals rendered with
// exactly two fractional digits.
func (d *Dataset) Record(i int) []string {
	b := d.Banks[i]
	rec := make([]string, 0, len(d.Currencies)+2)
	rec = append(rec, b.Name, b.MarketCapUSD.StringFixed(2))
	for _, cur := range d.Currencies {
		rec = append(rec, b.Converted[cur].StringFixed(2))
	}
	return rec
}
