package banks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"bankflow/config"
	"bankflow/logger"
	"bankflow/models"
)

// ErrNoTable is returned when the document does not contain the expected
// table, or the table has no data rows. A silently empty dataset would
// propagate all the way into the output file, so this is treated as fatal.
var ErrNoTable = errors.New("no matching bank table found")

// Reader fetches the bank list document and extracts one row per bank.
type Reader struct {
	config *config.Config
	client *resty.Client
	log    *logger.Log
}

func NewReader(cfg *config.Config) *Reader {
	client := resty.New().
		SetTimeout(cfg.Source.Banks.Timeout)
	if cfg.Source.Banks.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.Source.Banks.UserAgent)
	}

	return &Reader{
		config: cfg,
		client: client,
		log:    logger.GetLogger(),
	}
}

// Read fetches the configured document and parses the bank table. Rows come
// back in source order.
func (r *Reader) Read(ctx context.Context) ([]models.Bank, error) {
	log := r.log.WithComponent("banks_reader").WithFields(logger.Fields{
		"url": r.config.Source.Banks.URL,
	})

	res, err := r.client.R().SetContext(ctx).Get(r.config.Source.Banks.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bank list: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("bank list request returned status %d", res.StatusCode())
	}

	rows, err := ParseTable(res.Body(), r.config.Source.Banks.TableSelector)
	if err != nil {
		return nil, err
	}

	log.WithFields(logger.Fields{"rows": len(rows)}).Info("bank table extracted")
	return rows, nil
}

var footnoteRegexp = regexp.MustCompile(`\[[^\]]*\]`)

// cleanCell normalizes a table cell: trims whitespace and drops footnote
// markers like "[5]".
func cleanCell(s string) string {
	return strings.TrimSpace(footnoteRegexp.ReplaceAllString(s, ""))
}

// ParseTable extracts (name, market cap) pairs from the first table matching
// selector. The name is taken from the second column, preferring anchor text
// when present; the market cap from the last column.
func ParseTable(body []byte, selector string) ([]models.Bank, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bank list document: %w", err)
	}

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: selector %q", ErrNoTable, selector)
	}

	var rows []models.Bank
	var rowErr error
	table.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			// header or spacer row
			return true
		}

		nameCell := cells.Eq(1)
		if cells.Length() == 2 {
			nameCell = cells.Eq(0)
		}
		name := cleanCell(nameCell.Find("a").Last().Text())
		if name == "" {
			name = cleanCell(nameCell.Text())
		}

		capText := cleanCell(cells.Eq(cells.Length() - 1).Text())
		capText = strings.ReplaceAll(capText, ",", "")
		mc, err := decimal.NewFromString(capText)
		if err != nil {
			rowErr = fmt.Errorf("failed to parse market cap %q for %q: %w", capText, name, err)
			return false
		}

		rows = append(rows, models.Bank{Name: name, MarketCapUSD: mc})
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: table has no data rows", ErrNoTable)
	}

	return rows, nil
}
