package selection

import "github.com/vanderheijden86/dexviz/pkg/model"

// EntitySet is a bounded selection of records keyed by name. It keeps the
// selected records so a chart can draw them without a dataset lookup.
type EntitySet struct {
	set     Set
	records map[string]model.Record
}

// NewEntitySet returns an empty entity selection.
func NewEntitySet(noun string) *EntitySet {
	return &EntitySet{set: Set{noun: noun}, records: make(map[string]model.Record)}
}

// Toggle removes r when selected, otherwise adds it subject to Capacity.
func (e *EntitySet) Toggle(r model.Record) (Outcome, error) {
	out, err := e.set.Toggle(r.Name)
	switch out {
	case Added:
		e.records[r.Name] = r
	case Removed:
		delete(e.records, r.Name)
	}
	return out, err
}

// Clear empties the selection.
func (e *EntitySet) Clear() {
	e.set.Clear()
	clear(e.records)
}

// Has reports whether name is selected.
func (e *EntitySet) Has(name string) bool { return e.set.Has(name) }

// Len returns the member count.
func (e *EntitySet) Len() int { return e.set.Len() }

// Full reports whether another addition would be rejected.
func (e *EntitySet) Full() bool { return e.set.Full() }

// Keys returns selected names in insertion order.
func (e *EntitySet) Keys() []string { return e.set.Keys() }

// ColorOf returns the palette color for name.
func (e *EntitySet) ColorOf(name string) (string, bool) { return e.set.ColorOf(name) }

// Colors returns name → color for every member.
func (e *EntitySet) Colors() map[string]string { return e.set.Colors() }

// Records returns the selected records in insertion order.
func (e *EntitySet) Records() []model.Record {
	out := make([]model.Record, 0, e.set.Len())
	for _, k := range e.set.keys {
		out = append(out, e.records[k])
	}
	return out
}
