package datasource

import (
	"context"
	"fmt"

	"github.com/vanderheijden86/dexviz/pkg/debug"
	"github.com/vanderheijden86/dexviz/pkg/loader"
	"github.com/vanderheijden86/dexviz/pkg/model"
)

// Load detects the source at path and loads it.
func Load(ctx context.Context, path string, opts loader.ParseOptions) (model.Dataset, error) {
	src, err := Detect(path)
	if err != nil {
		return model.Dataset{}, err
	}
	return LoadFromSource(ctx, src, opts)
}

// LoadFromSource loads a dataset from a specific DataSource, dispatching to
// the appropriate reader based on source type.
func LoadFromSource(ctx context.Context, source DataSource, opts loader.ParseOptions) (model.Dataset, error) {
	defer debug.LogEnterExit("LoadFromSource " + string(source.Type))()

	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return model.Dataset{}, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.Load(ctx, opts)
	case SourceTypeCSV:
		if err := ctx.Err(); err != nil {
			return model.Dataset{}, err
		}
		return loader.LoadFile(source.Path, opts)
	default:
		return model.Dataset{}, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

// ValidateSource loads source quietly and records whether it is usable.
func ValidateSource(ctx context.Context, source *DataSource) error {
	opts := loader.ParseOptions{WarningHandler: func(string) {}}
	ds, err := LoadFromSource(ctx, *source, opts)
	if err != nil {
		source.Valid = false
		source.ValidationError = err.Error()
		return err
	}
	if ds.Len() == 0 {
		source.Valid = false
		source.ValidationError = "no records"
		return fmt.Errorf("%s: no records", source.Path)
	}
	source.Valid = true
	source.ValidationError = ""
	source.RecordCount = ds.Len()
	return nil
}

// LoadBest discovers every dataset in dir, validates them and loads the
// freshest valid one.
func LoadBest(ctx context.Context, dir string, opts loader.ParseOptions) (model.Dataset, DataSource, error) {
	sources, err := DiscoverSources(dir)
	if err != nil {
		return model.Dataset{}, DataSource{}, err
	}
	for i := range sources {
		if err := ValidateSource(ctx, &sources[i]); err != nil {
			debug.Log("validation failed for %s: %v", sources[i].Path, err)
		}
	}
	best, err := SelectBestSource(sources)
	if err != nil {
		return model.Dataset{}, DataSource{}, err
	}
	ds, err := LoadFromSource(ctx, best, opts)
	return ds, best, err
}
