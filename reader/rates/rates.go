package rates

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"bankflow/config"
	"bankflow/logger"
	"bankflow/models"
)

// Reader fetches the exchange-rate table, a CSV document with Currency and
// Rate columns.
type Reader struct {
	config *config.Config
	client *resty.Client
	log    *logger.Log
}

func NewReader(cfg *config.Config) *Reader {
	return &Reader{
		config: cfg,
		client: resty.New().SetTimeout(cfg.Source.Rates.Timeout),
		log:    logger.GetLogger(),
	}
}

// Fetch retrieves and parses the rate table.
func (r *Reader) Fetch(ctx context.Context) (models.RateTable, error) {
	res, err := r.client.R().SetContext(ctx).Get(r.config.Source.Rates.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("exchange rate request returned status %d", res.StatusCode())
	}

	table, err := Parse(res.Body())
	if err != nil {
		return nil, err
	}

	r.log.WithComponent("rates_reader").WithFields(logger.Fields{
		"url":        r.config.Source.Rates.URL,
		"currencies": len(table),
	}).Info("exchange rates loaded")
	return table, nil
}

// Parse reads a CSV body whose header names a Currency and a Rate column, in
// any order. Extra columns are ignored.
func Parse(body []byte) (models.RateTable, error) {
	reader := csv.NewReader(bytes.NewReader(body))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse exchange rate csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("exchange rate csv is empty")
	}

	curIdx, rateIdx := -1, -1
	for i, col := range records[0] {
		switch strings.TrimSpace(col) {
		case "Currency":
			curIdx = i
		case "Rate":
			rateIdx = i
		}
	}
	if curIdx < 0 || rateIdx < 0 {
		return nil, fmt.Errorf("exchange rate csv is missing Currency or Rate column: %v", records[0])
	}

	table := make(models.RateTable, len(records)-1)
	for _, rec := range records[1:] {
		currency := strings.TrimSpace(rec[curIdx])
		rate, err := decimal.NewFromString(strings.TrimSpace(rec[rateIdx]))
		if err != nil {
			return nil, fmt.Errorf("invalid rate for currency %q: %w", currency, err)
		}
		table[currency] = rate
	}

	return table, nil
}
