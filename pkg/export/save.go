package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/dexviz/pkg/chart"
	"github.com/vanderheijden86/dexviz/pkg/session"
)

// Format is an output file format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// ParseFormat accepts svg, png or json with an optional leading dot.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatSVG, FormatPNG, FormatJSON:
		return f, nil
	case "":
		return FormatSVG, nil
	}
	return "", fmt.Errorf("unsupported format %q (want svg, png or json)", s)
}

// InferFormat resolves the format for path: an explicit format wins,
// otherwise the extension decides, and a path without extension gets .svg
// appended.
func InferFormat(path, format string) (Format, string, error) {
	if format != "" {
		f, err := ParseFormat(format)
		return f, path, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return FormatSVG, path, nil
	case ".png":
		return FormatPNG, path, nil
	case ".json":
		return FormatJSON, path, nil
	case "":
		if path != "" {
			path += ".svg"
		}
		return FormatSVG, path, nil
	}
	return "", path, fmt.Errorf("unsupported format %q (want svg, png or json)", filepath.Ext(path))
}

// Render writes f in the given format. JSON dumps the single frame.
func Render(w io.Writer, f chart.Frame, format Format) error {
	switch format {
	case FormatPNG:
		return RenderPNG(w, f)
	case FormatJSON:
		return RenderJSON(w, single(f))
	default:
		return RenderSVG(w, f)
	}
}

func single(f chart.Frame) session.Frames {
	var fr session.Frames
	switch f.Kind {
	case chart.KindScatter:
		fr.Scatter = f
	case chart.KindRadar:
		fr.Radar = f
	default:
		fr.Bar = f
	}
	return fr
}

// SaveFrame renders one chart to path, inferring the format from its
// extension when format is empty.
func SaveFrame(path, format string, f chart.Frame) (string, error) {
	fm, path, err := InferFormat(path, format)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create parent dir: %w", err)
	}
	var buf bytes.Buffer
	if err := Render(&buf, f, fm); err != nil {
		return "", fmt.Errorf("render %s: %w", f.Kind, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// SaveOptions controls SaveCharts.
type SaveOptions struct {
	Dir    string
	Format Format
	Charts []chart.Kind // empty means all
	Prefix string       // file name prefix, e.g. "dexviz-"
}

// SaveCharts writes each requested chart to Dir as <prefix><kind>.<format>,
// rendering concurrently. JSON output is a single <prefix>charts.json with
// every requested frame. Returns the written paths in chart order.
func SaveCharts(ctx context.Context, frames session.Frames, opts SaveOptions) ([]string, error) {
	format := opts.Format
	if format == "" {
		format = FormatSVG
	}
	kinds := opts.Charts
	if len(kinds) == 0 {
		kinds = chart.Kinds
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	if format == FormatJSON {
		var sel session.Frames
		for _, k := range kinds {
			switch k {
			case chart.KindBar:
				sel.Bar = frames.Bar
			case chart.KindScatter:
				sel.Scatter = frames.Scatter
			case chart.KindRadar:
				sel.Radar = frames.Radar
			}
		}
		var buf bytes.Buffer
		if err := RenderJSON(&buf, sel); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, opts.Prefix+"charts.json")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	paths := make([]string, len(kinds))
	g, ctx := errgroup.WithContext(ctx)
	for i, k := range kinds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, fmt.Sprintf("%s%s.%s", opts.Prefix, k, format))
			written, err := SaveFrame(path, string(format), frames.Get(k))
			if err != nil {
				return err
			}
			paths[i] = written
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// ParseCharts turns a list like ["bar", "radar"] into chart kinds.
func ParseCharts(names []string) ([]chart.Kind, error) {
	var out []chart.Kind
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		switch k := chart.Kind(n); k {
		case chart.KindBar, chart.KindScatter, chart.KindRadar:
			out = append(out, k)
		case "all":
			return chart.Kinds, nil
		default:
			return nil, fmt.Errorf("unknown chart %q (want bar, scatter or radar)", n)
		}
	}
	return out, nil
}
