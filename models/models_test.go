package models

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDatasetHeader(t *testing.T) {
	ds := &Dataset{Currencies: []string{"GBP", "EUR", "INR"}}
	want := []string{"Name", "MC_USD_Billion", "MC_GBP_Billion", "MC_EUR_Billion", "MC_INR_Billion"}
	if got := ds.Header(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected header: %v", got)
	}
}

func TestDatasetRecord(t *testing.T) {
	ds := &Dataset{
		Currencies: []string{"GBP"},
		Banks: []EnrichedBank{{
			Bank: Bank{Name: "JPMorgan Chase", MarketCapUSD: decimal.RequireFromString("432.92")},
			Converted: map[string]decimal.Decimal{
				"GBP": decimal.RequireFromString("346.336"),
			},
		}},
	}
	got := ds.Record(0)
	want := []string{"JPMorgan Chase", "432.92", "346.34"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected record: %v", got)
	}
}
