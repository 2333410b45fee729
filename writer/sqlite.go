package writer

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	_ "modernc.org/sqlite"

	"bankflow/logger"
	"bankflow/models"
)

// Store wraps the embedded database used by the load and report stages. The
// caller owns the handle and must Close it on every exit path.
type Store struct {
	db  *sql.DB
	log *logger.Log
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{db: db, log: logger.GetLogger()}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Replace drops and recreates the named table from the dataset inside a
// single transaction, so a failed load leaves the prior contents untouched.
func (s *Store) Replace(ctx context.Context, tableName string, ds *models.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, tableName)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	header := ds.Header()
	cols := make([]string, len(header))
	cols[0] = fmt.Sprintf(`"%s" TEXT`, header[0])
	for i := 1; i < len(header); i++ {
		cols[i] = fmt.Sprintf(`"%s" REAL`, header[i])
	}
	create := fmt.Sprintf(`CREATE TABLE "%s" (%s)`, tableName, strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	placeholders := strings.TrimRight(strings.Repeat("?, ", len(header)), ", ")
	insert := fmt.Sprintf(`INSERT INTO "%s" VALUES (%s)`, tableName, placeholders)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range ds.Banks {
		rec := ds.Record(i)
		args := make([]interface{}, len(rec))
		args[0] = rec[0]
		for j := 1; j < len(rec); j++ {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return fmt.Errorf("row %d column %s: %w", i, header[j], err)
			}
			args[j] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit load: %w", err)
	}

	s.log.WithComponent("db_writer").WithFields(logger.Fields{
		"table": tableName,
		"rows":  len(ds.Banks),
	}).Info("dataset loaded into database")
	return nil
}

// Result holds a query's columns and stringified rows.
type Result struct {
	Statement string
	Columns   []string
	Rows      [][]string
}

// Query executes one fixed literal statement and collects the full result.
func (s *Store) Query(ctx context.Context, statement string) (*Result, error) {
	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	res := &Result{Statement: statement, Columns: cols}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rec := make([]string, len(cols))
		for i, v := range values {
			rec[i] = formatValue(v)
		}
		res.Rows = append(res.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return res, nil
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Render prints the result as a bordered table preceded by the statement.
func (r *Result) Render(w io.Writer) {
	fmt.Fprintln(w, r.Statement)

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, rec := range r.Rows {
		row := make(table.Row, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
