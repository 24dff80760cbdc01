package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/vanderheijden86/dexviz/pkg/debug"
	"github.com/vanderheijden86/dexviz/pkg/metrics"
	"github.com/vanderheijden86/dexviz/pkg/model"
)

// DataPathEnvVar overrides the dataset location for every command.
const DataPathEnvVar = "DEXVIZ_DATA"

// ErrNoNameColumn is returned when the header lacks the Name column.
var ErrNoNameColumn = errors.New("dataset header has no Name column")

// ParseOptions configures ParseRecords.
type ParseOptions struct {
	// WarningHandler receives one message per skipped row or coerced cell.
	// If nil, warnings are printed to os.Stderr.
	WarningHandler func(string)

	// Strict makes the first malformed numeric cell a hard error instead of
	// a NaN.
	Strict bool

	// NumericColumns overrides model.NumericColumns.
	NumericColumns []string

	// CategoryColumn overrides model.ColType1 as the primary category.
	CategoryColumn string
}

// MalformedCellError reports a numeric cell that failed to parse in strict mode.
type MalformedCellError struct {
	Line   int
	Column string
	Value  string
}

func (e *MalformedCellError) Error() string {
	return fmt.Sprintf("line %d: column %s: %q is not a number", e.Line, e.Column, e.Value)
}

// LoadFile opens path and parses it as CSV.
func LoadFile(path string, opts ParseOptions) (model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Dataset{}, fmt.Errorf("no dataset found at %s", path)
		}
		return model.Dataset{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	ds, err := ParseRecords(f, opts)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	debug.Log("loaded %d records from %s", ds.Len(), path)
	return ds, nil
}

// ParseRecords reads a header row followed by data rows. Rows with an empty
// or repeated Name are skipped with a warning; numeric cells that fail to
// parse become NaN unless opts.Strict is set.
func ParseRecords(r io.Reader, opts ParseOptions) (model.Dataset, error) {
	defer metrics.Timer(metrics.CSVParse)()

	warn := opts.WarningHandler
	if warn == nil {
		warn = func(msg string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		}
	}
	numeric := opts.NumericColumns
	if numeric == nil {
		numeric = model.NumericColumns
	}
	catCol := opts.CategoryColumn
	if catCol == "" {
		catCol = model.ColType1
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return model.Dataset{}, fmt.Errorf("empty dataset")
		}
		return model.Dataset{}, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = string(stripBOM([]byte(header[0])))
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	cols := NewColumns(header, numeric, catCol)
	if cols.Name < 0 {
		return model.Dataset{}, ErrNoNameColumn
	}

	var records []model.Record
	seen := make(map[string]bool)
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				warn(fmt.Sprintf("skipping line %d: %v", line, perr.Err))
				continue
			}
			return model.Dataset{}, fmt.Errorf("error reading dataset at line %d: %w", line, err)
		}

		rec, err := cols.Record(row, line, opts.Strict, warn)
		if err != nil {
			return model.Dataset{}, err
		}
		if rec.Name == "" {
			warn(fmt.Sprintf("skipping line %d: empty name", line))
			continue
		}
		if seen[rec.Name] {
			warn(fmt.Sprintf("skipping line %d: duplicate name %q", line, rec.Name))
			continue
		}
		seen[rec.Name] = true
		records = append(records, rec)
	}

	return model.NewDataset(records), nil
}

// Columns maps header names to indexes. The SQLite reader reuses it so both
// sources apply identical coercion.
type Columns struct {
	Header   []string
	Name     int
	Category int
	numeric  map[string]bool
}

// NewColumns indexes a header row.
func NewColumns(header, numeric []string, categoryCol string) Columns {
	c := Columns{Header: header, Name: -1, Category: -1, numeric: make(map[string]bool, len(numeric))}
	for _, n := range numeric {
		c.numeric[n] = true
	}
	for i, h := range header {
		switch h {
		case model.ColName:
			c.Name = i
		case categoryCol:
			c.Category = i
		}
	}
	return c
}

// Record builds a model.Record from one row of cells.
func (c Columns) Record(row []string, line int, strict bool, warn func(string)) (model.Record, error) {
	rec := model.Record{
		Attrs:   make(map[string]string, len(c.Header)),
		Numbers: make(map[string]float64, len(c.numeric)),
	}
	for i, h := range c.Header {
		var cell string
		if i < len(row) {
			cell = strings.TrimSpace(row[i])
		}
		switch i {
		case c.Name:
			rec.Name = cell
			continue
		case c.Category:
			rec.Category = cell
			continue
		}
		rec.Attrs[h] = cell
		if !c.numeric[h] {
			continue
		}
		v, ok := ParseNumber(cell)
		if !ok {
			if strict {
				return model.Record{}, &MalformedCellError{Line: line, Column: h, Value: cell}
			}
			warn(fmt.Sprintf("line %d: column %s: %q is not a number", line, h, cell))
		}
		rec.Numbers[h] = v
	}
	return rec, nil
}

// ParseNumber coerces a cell the way the charts expect: empty or malformed
// input yields NaN and ok=false. Spelled-out non-finite values ("inf",
// "Infinity", "NaN") are malformed too; an infinite stat would become the
// radar's maximum.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return math.NaN(), false
	}
	return v, true
}

func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
