// Package session wires the control surface to the selection state and the
// chart builders. A Session is owned by one goroutine (the TUI update loop or
// a CLI command); nothing in it is safe for concurrent mutation.
package session

import (
	"fmt"
	"slices"

	"github.com/vanderheijden86/dexviz/pkg/chart"
	"github.com/vanderheijden86/dexviz/pkg/config"
	"github.com/vanderheijden86/dexviz/pkg/debug"
	"github.com/vanderheijden86/dexviz/pkg/model"
	"github.com/vanderheijden86/dexviz/pkg/selection"
)

// Nouns used in capacity warnings.
const (
	TypeNoun   = "types"
	EntityNoun = "Pokémon"
)

// BarState is the bar chart's control values.
type BarState struct {
	Attribute string
	Sort      chart.SortMode
	Highlight string
}

// RadarState is the radar chart's control values. Type only filters the
// name checklist; selected entities survive a type change.
type RadarState struct {
	Type     string
	Entities *selection.EntitySet
	Group    model.StatGroup
}

// Session holds the dataset and every chart's selection state.
type Session struct {
	ds    model.Dataset
	stage *chart.Stage

	Bar      BarState
	Types    *selection.Set
	Radar    RadarState
	Viewport chart.Viewport
}

// New returns an empty session over ds.
func New(ds model.Dataset) *Session {
	return &Session{
		ds:       ds,
		stage:    chart.NewStage(),
		Bar:      BarState{Attribute: model.ColType1, Sort: chart.SortByCount},
		Types:    selection.NewSet(TypeNoun),
		Radar:    RadarState{Entities: selection.NewEntitySet(EntityNoun), Group: model.GroupAll},
		Viewport: chart.Identity,
	}
}

// ApplyConfig seeds the bar and radar controls from configuration. Empty
// fields keep the current value.
func (s *Session) ApplyConfig(c config.ChartConfig) error {
	if c.BarAttribute != "" {
		if err := s.SetBarAttribute(c.BarAttribute); err != nil {
			return err
		}
	}
	if c.BarSort != "" {
		mode, err := chart.ParseSortMode(c.BarSort)
		if err != nil {
			return err
		}
		s.SetBarSort(mode)
	}
	if c.StatGroup != "" {
		g, err := model.ParseStatGroup(c.StatGroup)
		if err != nil {
			return err
		}
		s.SetStatGroup(g)
	}
	return nil
}

// Dataset returns the session's dataset.
func (s *Session) Dataset() model.Dataset { return s.ds }

// Categories lists the scatter type checkboxes and the radar dropdown
// options.
func (s *Session) Categories() []string { return s.ds.Categories() }

// ToggleScatterType flips one type checkbox. checked is Has(category) after
// the toggle, the state the checkbox must show; on a capacity error the set
// is unchanged, so a rejected type reads unchecked.
func (s *Session) ToggleScatterType(category string) (checked bool, err error) {
	out, err := s.Types.Toggle(category)
	debug.Log("scatter toggle %q: %s", category, out)
	return s.Types.Has(category), err
}

// ReplaceScatterTypes checks exactly the given types, in order.
func (s *Session) ReplaceScatterTypes(categories ...string) error {
	return s.Types.Replace(categories...)
}

// ClearScatter unchecks every type and resets the viewport.
func (s *Session) ClearScatter() {
	s.Types.Clear()
	s.Viewport = chart.Identity
}

// SelectRadarType sets the dropdown value. Unknown types are rejected.
func (s *Session) SelectRadarType(category string) error {
	if category != "" && !slices.Contains(s.ds.Categories(), category) {
		return fmt.Errorf("unknown type %q", category)
	}
	s.Radar.Type = category
	return nil
}

// RadarChoices returns the name checklist for the current dropdown value.
func (s *Session) RadarChoices() []model.Record {
	if s.Radar.Type == "" {
		return nil
	}
	return s.ds.InCategory(s.Radar.Type)
}

// ToggleRadarEntity flips one name checkbox.
func (s *Session) ToggleRadarEntity(name string) (checked bool, err error) {
	r, ok := s.ds.ByName(name)
	if !ok {
		return false, fmt.Errorf("unknown name %q", name)
	}
	out, err := s.Radar.Entities.Toggle(r)
	debug.Log("radar toggle %q: %s", name, out)
	return s.Radar.Entities.Has(name), err
}

// ClearRadar drops every selected entity.
func (s *Session) ClearRadar() {
	s.Radar.Entities.Clear()
}

// SetStatGroup picks which stats the radar shows.
func (s *Session) SetStatGroup(g model.StatGroup) {
	s.Radar.Group = g
}

// SetBarAttribute regroups the bar chart. The highlight is dropped since
// its label belongs to the previous grouping.
func (s *Session) SetBarAttribute(attr string) error {
	if !slices.Contains(model.BarAttributes, attr) {
		return fmt.Errorf("unsupported bar attribute %q", attr)
	}
	if attr != s.Bar.Attribute {
		s.Bar.Highlight = ""
	}
	s.Bar.Attribute = attr
	return nil
}

// SetBarSort changes bar ordering.
func (s *Session) SetBarSort(mode chart.SortMode) {
	s.Bar.Sort = mode
}

// ClickBar highlights a bar and mirrors it onto the other charts whatever
// the bar attribute: the scatter checks exactly the type named by the label
// and the radar dropdown points at it. A label that is not a type unchecks
// every scatter type and empties the dropdown. The bridge is a pair of
// direct calls; nothing is dispatched.
func (s *Session) ClickBar(label string) error {
	s.Bar.Highlight = label
	if !slices.Contains(s.ds.Categories(), label) {
		if err := s.ReplaceScatterTypes(); err != nil {
			return err
		}
		return s.SelectRadarType("")
	}
	if err := s.ReplaceScatterTypes(label); err != nil {
		return err
	}
	return s.SelectRadarType(label)
}

// ZoomScatter zooms the scatter viewport about the plot center.
func (s *Session) ZoomScatter(factor float64) {
	s.Viewport = s.Viewport.ZoomAt(factor, chart.ScatterWidth/2, chart.ScatterHeight/2, chart.ScatterWidth, chart.ScatterHeight)
}

// PanScatter moves the scatter viewport by screen pixels.
func (s *Session) PanScatter(dx, dy float64) {
	s.Viewport = s.Viewport.PanBy(dx, dy, chart.ScatterWidth, chart.ScatterHeight)
}

// Frames is one render pass over all charts.
type Frames struct {
	Bar     chart.Frame `json:"bar"`
	Scatter chart.Frame `json:"scatter"`
	Radar   chart.Frame `json:"radar"`
}

// Get returns the frame for kind.
func (f Frames) Get(kind chart.Kind) chart.Frame {
	switch kind {
	case chart.KindScatter:
		return f.Scatter
	case chart.KindRadar:
		return f.Radar
	default:
		return f.Bar
	}
}

// Render builds every chart from the current state and reconciles each
// against the previous Render.
func (s *Session) Render() Frames {
	return Frames{
		Bar:     s.RenderChart(chart.KindBar),
		Scatter: s.RenderChart(chart.KindScatter),
		Radar:   s.RenderChart(chart.KindRadar),
	}
}

// RenderChart builds and commits one chart.
func (s *Session) RenderChart(kind chart.Kind) chart.Frame {
	var f chart.Frame
	switch kind {
	case chart.KindScatter:
		f = chart.BuildScatter(s.ds, s.Types, s.Viewport)
	case chart.KindRadar:
		f = chart.BuildRadar(s.ds, s.Radar.Entities, chart.RadarOptions{Group: s.Radar.Group})
	default:
		f = chart.BuildBar(s.ds.Records(), chart.BarOptions{
			Attribute: s.Bar.Attribute,
			Sort:      s.Bar.Sort,
			Highlight: s.Bar.Highlight,
		})
	}
	return s.stage.Commit(f)
}
