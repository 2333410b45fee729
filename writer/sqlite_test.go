package writer

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "banks.db"))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReplaceAndQuery(t *testing.T) {
	ds := fixtureDataset(t)
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Replace(ctx, "Largest_banks", ds); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	res, err := s.Query(ctx, "SELECT * FROM Largest_banks")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(res.Rows) != len(ds.Banks) {
		t.Fatalf("expected %d rows, got %d", len(ds.Banks), len(res.Rows))
	}
	if res.Columns[0] != "Name" || res.Columns[1] != "MC_USD_Billion" {
		t.Errorf("unexpected columns: %v", res.Columns)
	}
	if res.Rows[0][0] != "JPMorgan Chase" {
		t.Errorf("unexpected first row: %v", res.Rows[0])
	}
	if res.Rows[0][2] != "346.34" {
		t.Errorf("unexpected GBP value: %v", res.Rows[0])
	}
}

func TestReplaceIsReplaceNotAppend(t *testing.T) {
	ds := fixtureDataset(t)
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Replace(ctx, "Largest_banks", ds); err != nil {
		t.Fatalf("first Replace failed: %v", err)
	}
	if err := s.Replace(ctx, "Largest_banks", ds); err != nil {
		t.Fatalf("second Replace failed: %v", err)
	}

	res, err := s.Query(ctx, "SELECT COUNT(*) FROM Largest_banks")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if res.Rows[0][0] != "2" {
		t.Errorf("expected 2 rows after reload, got %s", res.Rows[0][0])
	}
}

func TestQueryAggregate(t *testing.T) {
	ds := fixtureDataset(t)
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Replace(ctx, "Largest_banks", ds); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	res, err := s.Query(ctx, "SELECT AVG(MC_GBP_Billion) FROM Largest_banks")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	// (346.34 + 185.22) / 2
	avg, err := strconv.ParseFloat(res.Rows[0][0], 64)
	if err != nil {
		t.Fatalf("average is not numeric: %s", res.Rows[0][0])
	}
	if math.Abs(avg-265.78) > 1e-9 {
		t.Errorf("unexpected average: %s", res.Rows[0][0])
	}
}

func TestQueryBadStatement(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Query(context.Background(), "SELECT * FROM no_such_table"); err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestResultRender(t *testing.T) {
	res := &Result{
		Statement: "SELECT Name FROM Largest_banks LIMIT 1",
		Columns:   []string{"Name"},
		Rows:      [][]string{{"JPMorgan Chase"}},
	}
	var buf bytes.Buffer
	res.Render(&buf)

	out := buf.String()
	if !strings.Contains(out, "SELECT Name FROM Largest_banks LIMIT 1") {
		t.Errorf("statement missing from output: %s", out)
	}
	if !strings.Contains(out, "JPMorgan Chase") {
		t.Errorf("row missing from output: %s", out)
	}
}
