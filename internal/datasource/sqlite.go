package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/dexviz/pkg/loader"
	"github.com/vanderheijden86/dexviz/pkg/metrics"
	"github.com/vanderheijden86/dexviz/pkg/model"
)

// SQLiteReader provides read access to a dataset database
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Count returns the number of rows in the dataset table.
func (r *SQLiteReader) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+TableName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return n, nil
}

// Load reads every row of the pokemon table. Cells go through the same
// coercion as CSV: numeric columns are parsed from their text form, so a
// NULL or non-numeric value becomes NaN with a warning.
func (r *SQLiteReader) Load(ctx context.Context, opts loader.ParseOptions) (model.Dataset, error) {
	defer metrics.Timer(metrics.SQLiteLoad)()

	warn := opts.WarningHandler
	if warn == nil {
		warn = func(string) {}
	}
	numeric := opts.NumericColumns
	if numeric == nil {
		numeric = model.NumericColumns
	}
	catCol := opts.CategoryColumn
	if catCol == "" {
		catCol = model.ColType1
	}

	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+TableName)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("querying %s: %w", TableName, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return model.Dataset{}, err
	}
	cols := loader.NewColumns(header, numeric, catCol)
	if cols.Name < 0 {
		return model.Dataset{}, loader.ErrNoNameColumn
	}

	var records []model.Record
	seen := make(map[string]bool)
	raw := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	line := 0
	for rows.Next() {
		line++
		if err := rows.Scan(ptrs...); err != nil {
			return model.Dataset{}, fmt.Errorf("row %d: %w", line, err)
		}
		cells := make([]string, len(raw))
		for i, v := range raw {
			cells[i] = cellString(v)
		}
		rec, err := cols.Record(cells, line, opts.Strict, warn)
		if err != nil {
			return model.Dataset{}, err
		}
		if rec.Name == "" {
			warn(fmt.Sprintf("skipping row %d: empty name", line))
			continue
		}
		if seen[rec.Name] {
			warn(fmt.Sprintf("skipping row %d: duplicate name %q", line, rec.Name))
			continue
		}
		seen[rec.Name] = true
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return model.Dataset{}, err
	}
	return model.NewDataset(records), nil
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(x)
	}
}

// WriteSQLite writes ds into a new pokemon table at path, replacing any
// existing table. Numeric columns are REAL (NULL for NaN); everything else
// is TEXT.
func WriteSQLite(ctx context.Context, path string, ds model.Dataset) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	header := datasetHeader(ds)
	isNumeric := make(map[string]bool)
	for _, c := range model.NumericColumns {
		isNumeric[c] = true
	}

	defs := make([]string, len(header))
	quoted := make([]string, len(header))
	for i, h := range header {
		quoted[i] = quoteIdent(h)
		typ := "TEXT"
		if isNumeric[h] {
			typ = "REAL"
		}
		defs[i] = quoted[i] + " " + typ
		if h == model.ColName {
			defs[i] += " PRIMARY KEY"
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+TableName); err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", TableName, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(header)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		TableName, strings.Join(quoted, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(header))
	for _, rec := range ds.Records() {
		for i, h := range header {
			if isNumeric[h] {
				if v := rec.Value(h); !math.IsNaN(v) {
					args[i] = v
				} else {
					args[i] = nil
				}
				continue
			}
			args[i] = rec.Attr(h)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting %q: %w", rec.Name, err)
		}
	}
	return tx.Commit()
}

// datasetHeader returns Name, Type_1, then every other column seen in ds in
// sorted order.
func datasetHeader(ds model.Dataset) []string {
	header := []string{model.ColName, model.ColType1}
	seen := map[string]bool{model.ColName: true, model.ColType1: true}
	var rest []string
	for _, r := range ds.Records() {
		for k := range r.Attrs {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	return append(header, rest...)
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
