// Package loader parses the Pokémon CSV dataset into a model.Dataset.
//
// Parsing is lenient by default: bad rows are skipped and bad numeric cells
// become NaN, each reported through ParseOptions.WarningHandler. The chart
// renderers treat NaN coordinates as undefined marks.
package loader
