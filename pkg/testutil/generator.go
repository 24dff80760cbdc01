// Package testutil provides deterministic Pokémon-shaped datasets and
// chart assertions for tests and benchmarks.
package testutil

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"github.com/vanderheijden86/dexviz/pkg/model"
)

// Columns is the CSV header WriteCSV emits, in order.
var Columns = []string{
	model.ColName, model.ColType1, model.ColType2,
	string(model.StatHP), string(model.StatAttack), string(model.StatDefense),
	string(model.StatSpAttack), string(model.StatSpDefense), string(model.StatSpeed),
	model.ColHeight, model.ColWeight,
	model.ColColor, model.ColBody, model.ColGen, model.ColEggGroup,
}

// GeneratorConfig controls record generation.
type GeneratorConfig struct {
	Seed        int64    // 0 picks 42
	NamePrefix  string   // default "Mon"
	Types       []string // Type_1 pool
	Colors      []string
	BodyStyles  []string
	EggGroups   []string
	MissingRate float64 // share of numeric cells set to NaN
}

// DefaultConfig returns the eighteen Pokémon types and the Pokédex colours.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:       42,
		NamePrefix: "Mon",
		Types: []string{
			"Normal", "Fire", "Water", "Grass", "Electric", "Ice",
			"Fighting", "Poison", "Ground", "Flying", "Psychic", "Bug",
			"Rock", "Ghost", "Dragon", "Dark", "Steel", "Fairy",
		},
		Colors:     []string{"Black", "Blue", "Brown", "Green", "Grey", "Pink", "Purple", "Red", "White", "Yellow"},
		BodyStyles: []string{"bipedal_tailed", "quadruped", "serpentine_body", "two_wings", "head_only"},
		EggGroups:  []string{"Monster", "Field", "Water_1", "Bug", "Fairy", "Mineral", "Undiscovered"},
	}
}

// Generator produces records from a seeded source. Two generators with the
// same config produce identical output.
type Generator struct {
	rng  *rand.Rand
	cfg  GeneratorConfig
	next int
}

func New(cfg GeneratorConfig) *Generator {
	def := DefaultConfig()
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.NamePrefix == "" {
		cfg.NamePrefix = def.NamePrefix
	}
	if len(cfg.Types) == 0 {
		cfg.Types = def.Types
	}
	if len(cfg.Colors) == 0 {
		cfg.Colors = def.Colors
	}
	if len(cfg.BodyStyles) == 0 {
		cfg.BodyStyles = def.BodyStyles
	}
	if len(cfg.EggGroups) == 0 {
		cfg.EggGroups = def.EggGroups
	}
	return &Generator{rng: rand.New(rand.NewSource(cfg.Seed)), cfg: cfg}
}

func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Records returns n records with types drawn uniformly from the pool.
func (g *Generator) Records(n int) []model.Record {
	out := make([]model.Record, n)
	for i := range out {
		out[i] = g.record(g.pick(g.cfg.Types))
	}
	return out
}

// Skewed returns n records where roughly share of them have type dominant.
func (g *Generator) Skewed(n int, dominant string, share float64) []model.Record {
	out := make([]model.Record, n)
	for i := range out {
		typ := dominant
		if g.rng.Float64() >= share {
			typ = g.pick(g.cfg.Types)
		}
		out[i] = g.record(typ)
	}
	return out
}

// Tied returns perType records for each of types, interleaved so every
// type is first seen in the order given.
func (g *Generator) Tied(perType int, types ...string) []model.Record {
	if len(types) == 0 {
		types = g.cfg.Types
	}
	out := make([]model.Record, 0, perType*len(types))
	for i := 0; i < perType; i++ {
		for _, t := range types {
			out = append(out, g.record(t))
		}
	}
	return out
}

// Dataset wraps Records(n).
func (g *Generator) Dataset(n int) model.Dataset {
	return model.NewDataset(g.Records(n))
}

func (g *Generator) record(typ string) model.Record {
	g.next++
	r := model.Record{
		Name:     fmt.Sprintf("%s-%04d", g.cfg.NamePrefix, g.next),
		Category: typ,
		Attrs:    make(map[string]string, len(Columns)),
		Numbers:  make(map[string]float64, len(model.NumericColumns)),
	}
	if g.rng.Intn(3) == 0 {
		r.Attrs[model.ColType2] = g.pick(g.cfg.Types)
	} else {
		r.Attrs[model.ColType2] = ""
	}
	r.Attrs[model.ColColor] = g.pick(g.cfg.Colors)
	r.Attrs[model.ColBody] = g.pick(g.cfg.BodyStyles)
	r.Attrs[model.ColEggGroup] = g.pick(g.cfg.EggGroups)
	r.Attrs[model.ColGen] = strconv.Itoa(1 + g.rng.Intn(7))

	for _, s := range model.AllStats {
		g.number(&r, string(s), float64(5+g.rng.Intn(251)))
	}
	g.number(&r, model.ColHeight, math.Round((0.1+g.rng.Float64()*9.9)*100)/100)
	g.number(&r, model.ColWeight, math.Round((0.1+g.rng.Float64()*499.9)*10)/10)
	return r
}

// number stores v, or NaN at the configured missing rate, the way the
// loader stores a parsed cell.
func (g *Generator) number(r *model.Record, col string, v float64) {
	if g.cfg.MissingRate > 0 && g.rng.Float64() < g.cfg.MissingRate {
		r.Numbers[col] = math.NaN()
		r.Attrs[col] = ""
		return
	}
	r.Numbers[col] = v
	r.Attrs[col] = formatNumber(v)
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes records with the Columns header. NaN cells are empty.
func WriteCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	numeric := make(map[string]bool, len(model.NumericColumns))
	for _, c := range model.NumericColumns {
		numeric[c] = true
	}
	row := make([]string, len(Columns))
	for _, r := range records {
		for i, col := range Columns {
			if numeric[col] {
				row[i] = formatNumber(r.Value(col))
				continue
			}
			row[i] = r.Attr(col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToCSV is WriteCSV into a string.
func ToCSV(records []model.Record) string {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		panic(err)
	}
	return buf.String()
}

// QuickDataset returns n default records.
func QuickDataset(n int) model.Dataset {
	return NewDefault().Dataset(n)
}
