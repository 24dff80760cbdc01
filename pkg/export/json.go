package export

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/dexviz/pkg/session"
)

// RenderJSON writes every frame, diffs included, as indented JSON.
func RenderJSON(w io.Writer, frames session.Frames) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(frames)
}
