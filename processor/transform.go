package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bankflow/logger"
	"bankflow/models"
)

// ErrMissingRate is returned when a configured currency has no entry in the
// exchange-rate table. The check runs before any row is transformed, so a
// dataset is either fully enriched or not produced at all.
var ErrMissingRate = errors.New("missing exchange rate")

// Transform derives one market-cap column per configured currency:
// round(usd * rate, 2), rounding half away from zero. It does not modify its
// inputs.
func Transform(banks []models.Bank, rates models.RateTable, currencies []string) (*models.Dataset, error) {
	log := logger.GetLogger().WithComponent("transformer")

	for _, cur := range currencies {
		if _, ok := rates[cur]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingRate, cur)
		}
	}

	ds := &models.Dataset{
		Currencies: append([]string(nil), currencies...),
		Banks:      make([]models.EnrichedBank, 0, len(banks)),
		CreatedAt:  time.Now(),
	}

	for _, bank := range banks {
		enriched := models.EnrichedBank{
			Bank:      bank,
			Converted: make(map[string]decimal.Decimal, len(currencies)),
		}
		for _, cur := range currencies {
			enriched.Converted[cur] = bank.MarketCapUSD.Mul(rates[cur]).Round(2)
		}
		ds.Banks = append(ds.Banks, enriched)
	}

	log.WithFields(logger.Fields{
		"rows":       len(ds.Banks),
		"currencies": currencies,
	}).Info("dataset transformed")
	return ds, nil
}
