package banks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bankflow/config"
)

const fixtureHTML = `<html><body>
<table class="wikitable">
<tr><th>Rank</th><th>Bank name</th><th>Market cap (US$ billion)</th></tr>
<tr><td>1</td><td><a href="/wiki/JPMorgan_Chase">JPMorgan Chase</a></td><td>432.92</td></tr>
<tr><td>2</td><td><a href="/wiki/Bank_of_America">Bank of America</a></td><td>231.52</td></tr>
<tr><td>3</td><td>ICBC<sup>[5]</sup></td><td>194.56</td></tr>
<tr><td>4</td><td><a href="/wiki/Agricultural_Bank_of_China">Agricultural Bank of China</a></td><td>160.68</td></tr>
<tr><td>5</td><td><a href="/wiki/HDFC_Bank">HDFC Bank</a></td><td>157.91</td></tr>
</table>
</body></html>`

func testConfig(url string) *config.Config {
	cfg := &config.Config{}
	cfg.Source.Banks.URL = url
	cfg.Source.Banks.Timeout = 5 * time.Second
	cfg.Source.Banks.TableSelector = "table.wikitable"
	return cfg
}

func TestReadExtractsRowsInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureHTML))
	}))
	defer srv.Close()

	r := NewReader(testConfig(srv.URL))
	rows, err := r.Read(context.Background())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[0].Name != "JPMorgan Chase" {
		t.Errorf("unexpected first bank: %q", rows[0].Name)
	}
	if rows[0].MarketCapUSD.String() != "432.92" {
		t.Errorf("unexpected first market cap: %s", rows[0].MarketCapUSD)
	}
	if rows[2].Name != "ICBC" {
		t.Errorf("footnote marker not stripped: %q", rows[2].Name)
	}
	if rows[4].Name != "HDFC Bank" {
		t.Errorf("unexpected last bank: %q", rows[4].Name)
	}
}

func TestReadFailsOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	r := NewReader(testConfig(srv.URL))
	if _, err := r.Read(context.Background()); err == nil {
		t.Fatalf("expected error for 404 response")
	}
}

func TestReadFailsWhenTableMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>no tables here</p></body></html>"))
	}))
	defer srv.Close()

	r := NewReader(testConfig(srv.URL))
	_, err := r.Read(context.Background())
	if !errors.Is(err, ErrNoTable) {
		t.Fatalf("expected ErrNoTable, got %v", err)
	}
}

func TestParseTableFailsOnEmptyTable(t *testing.T) {
	body := []byte(`<table class="wikitable"><tr><th>Bank name</th><th>Cap</th></tr></table>`)
	_, err := ParseTable(body, "table.wikitable")
	if !errors.Is(err, ErrNoTable) {
		t.Fatalf("expected ErrNoTable for empty table, got %v", err)
	}
}

func TestParseTableFailsOnBadNumber(t *testing.T) {
	body := []byte(`<table class="wikitable">
<tr><td>1</td><td>Some Bank</td><td>not-a-number</td></tr>
</table>`)
	if _, err := ParseTable(body, "table.wikitable"); err == nil {
		t.Fatalf("expected parse error for non-numeric market cap")
	}
}

func TestParseTableThousandsSeparator(t *testing.T) {
	body := []byte(`<table class="wikitable">
<tr><td>1</td><td>Big Bank</td><td>1,234.56</td></tr>
</table>`)
	rows, err := ParseTable(body, "table.wikitable")
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if rows[0].MarketCapUSD.String() != "1234.56" {
		t.Errorf("unexpected market cap: %s", rows[0].MarketCapUSD)
	}
}
