// Package datasource detects, validates and loads the dataset from either a
// CSV file or a SQLite database holding the same columns in a "pokemon"
// table.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeCSV is a comma-separated file with a header row
	SourceTypeCSV SourceType = "csv"
	// SourceTypeSQLite is a SQLite database with a pokemon table
	SourceTypeSQLite SourceType = "sqlite"
)

// Priority values for source types (higher = preferred on equal mod time)
const (
	PrioritySQLite = 100
	PriorityCSV    = 50
)

// TableName is the SQLite table holding the dataset.
const TableName = "pokemon"

// DataSource represents a dataset file
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the absolute path to the source file
	Path string `json:"path"`
	// Priority determines preference when timestamps are equal
	Priority int `json:"priority"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
	// Valid indicates whether the source passed validation
	Valid bool `json:"valid"`
	// ValidationError describes why validation failed (if Valid is false)
	ValidationError string `json:"validation_error,omitempty"`
	// RecordCount is the number of rows found during validation
	RecordCount int `json:"record_count"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, mod=%s, records=%d, %s)",
		s.Path, s.Type, s.ModTime.Format(time.RFC3339), s.RecordCount, status)
}

// TypeFromPath infers the source type from a file extension.
func TypeFromPath(path string) (SourceType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return SourceTypeCSV, true
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite, true
	}
	return "", false
}

// Detect stats path and returns its DataSource. It does not read the file.
func Detect(path string) (DataSource, error) {
	typ, ok := TypeFromPath(path)
	if !ok {
		return DataSource{}, fmt.Errorf("unsupported dataset format: %s (want .csv, .db or .sqlite)", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return DataSource{}, fmt.Errorf("no dataset found at %s", path)
		}
		return DataSource{}, fmt.Errorf("failed to stat dataset: %w", err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("dataset path is a directory: %s", path)
	}
	src := DataSource{
		Type:    typ,
		Path:    abs,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}
	switch typ {
	case SourceTypeSQLite:
		src.Priority = PrioritySQLite
	default:
		src.Priority = PriorityCSV
	}
	return src, nil
}

// DiscoverSources lists every dataset file directly inside dir, freshest
// first. Files with other extensions are ignored.
func DiscoverSources(dir string) ([]DataSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var sources []DataSource
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := TypeFromPath(e.Name()); !ok {
			continue
		}
		src, err := Detect(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		sources = append(sources, src)
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})
	return sources, nil
}

// SelectBestSource returns the first valid source of an already sorted list.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	for _, s := range sources {
		if s.Valid {
			return s, nil
		}
	}
	return DataSource{}, fmt.Errorf("no valid dataset among %d candidates", len(sources))
}
