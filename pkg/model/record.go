// Package model defines the dataset types shared by the loader, the chart
// renderers and the control panel.
package model

import (
	"math"
	"sort"
)

// Column names used by the bundled dataset.
const (
	ColName     = "Name"
	ColType1    = "Type_1"
	ColType2    = "Type_2"
	ColHeight   = "Height_m"
	ColWeight   = "Weight_kg"
	ColColor    = "Color"
	ColBody     = "Body_Style"
	ColGen      = "Generation"
	ColEggGroup = "Egg_Group_1"
)

// Stat identifies one of the six numeric battle stats.
type Stat string

const (
	StatHP        Stat = "HP"
	StatAttack    Stat = "Attack"
	StatDefense   Stat = "Defense"
	StatSpAttack  Stat = "Sp_Atk"
	StatSpDefense Stat = "Sp_Def"
	StatSpeed     Stat = "Speed"
)

// AllStats is the canonical stat order.
var AllStats = []Stat{StatHP, StatAttack, StatDefense, StatSpAttack, StatSpDefense, StatSpeed}

// NumericColumns lists the columns the loader coerces to float64.
var NumericColumns = []string{
	string(StatHP), string(StatAttack), string(StatDefense),
	string(StatSpAttack), string(StatSpDefense), string(StatSpeed),
	ColHeight, ColWeight,
}

// Record is one dataset row. Records are never mutated after load.
type Record struct {
	Name     string
	Category string
	Attrs    map[string]string
	Numbers  map[string]float64
}

// Value returns the numeric field, or NaN when the column is absent.
func (r Record) Value(field string) float64 {
	v, ok := r.Numbers[field]
	if !ok {
		return math.NaN()
	}
	return v
}

// Stat is shorthand for Value(string(s)).
func (r Record) Stat(s Stat) float64 {
	return r.Value(string(s))
}

// Attr returns the raw string value of a column.
func (r Record) Attr(field string) string {
	switch field {
	case ColName:
		return r.Name
	case ColType1:
		return r.Category
	}
	return r.Attrs[field]
}

// Dataset is the ordered, read-only sequence of records.
type Dataset struct {
	records []Record
	byName  map[string]int
}

// NewDataset indexes records by name. Later duplicates are ignored; the
// loader already filters them, this only guards direct construction.
func NewDataset(records []Record) Dataset {
	ds := Dataset{
		records: make([]Record, 0, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	for _, r := range records {
		if _, dup := ds.byName[r.Name]; dup {
			continue
		}
		ds.byName[r.Name] = len(ds.records)
		ds.records = append(ds.records, r)
	}
	return ds
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.records) }

// Records returns a copy of the record slice in load order.
func (d Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// At returns the i-th record.
func (d Dataset) At(i int) Record { return d.records[i] }

// ByName looks a record up by its unique name.
func (d Dataset) ByName(name string) (Record, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Record{}, false
	}
	return d.records[i], true
}

// Filter returns the records for which keep returns true, in load order.
func (d Dataset) Filter(keep func(Record) bool) []Record {
	var out []Record
	for _, r := range d.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Categories returns the sorted distinct primary categories, excluding "".
func (d Dataset) Categories() []string {
	return d.Distinct(ColType1)
}

// Distinct returns the sorted distinct non-empty values of a column.
func (d Dataset) Distinct(field string) []string {
	seen := make(map[string]struct{})
	for _, r := range d.records {
		if v := r.Attr(field); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// InCategory returns the records whose primary category equals cat.
func (d Dataset) InCategory(cat string) []Record {
	return d.Filter(func(r Record) bool { return r.Category == cat })
}

// MaxOf returns the largest finite value of the given stats over the whole
// dataset, or 0 when none is finite.
func (d Dataset) MaxOf(stats []Stat) float64 {
	maxV := 0.0
	for _, r := range d.records {
		for _, s := range stats {
			if v := r.Stat(s); !math.IsNaN(v) && !math.IsInf(v, 0) && v > maxV {
				maxV = v
			}
		}
	}
	return maxV
}
