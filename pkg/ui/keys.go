package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/vanderheijden86/dexviz/pkg/chart"
)

// KeyMap holds every binding of the panel. Pane bindings are only consulted
// while their pane is focused, so letters are reused across panes.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	NextPane  key.Binding
	PrevPane  key.Binding
	Help      key.Binding
	Export    key.Binding
	CopySVG   key.Binding
	NextMark  key.Binding
	PrevMark  key.Binding
	Dismiss   key.Binding

	// Lists
	Down   key.Binding
	Up     key.Binding
	Toggle key.Binding
	Clear  key.Binding

	// Bar
	Attribute key.Binding
	Sort      key.Binding

	// Scatter
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ResetView key.Binding
	PanLeft   key.Binding
	PanRight  key.Binding
	PanUp     key.Binding
	PanDown   key.Binding

	// Radar
	NextType key.Binding
	PrevType key.Binding
	Group    key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		NextPane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "chart")),
		PrevPane:  key.NewBinding(key.WithKeys("shift+tab")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		CopySVG:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		NextMark:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n/p", "focus")),
		PrevMark:  key.NewBinding(key.WithKeys("p")),
		Dismiss:   key.NewBinding(key.WithKeys("enter", "esc")),

		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "move")),
		Up:     key.NewBinding(key.WithKeys("k", "up")),
		Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),

		Attribute: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "attribute")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),

		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut:   key.NewBinding(key.WithKeys("-", "_")),
		ResetView: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset")),
		PanLeft:   key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+arrows", "pan")),
		PanRight:  key.NewBinding(key.WithKeys("shift+right")),
		PanUp:     key.NewBinding(key.WithKeys("shift+up")),
		PanDown:   key.NewBinding(key.WithKeys("shift+down")),

		NextType: key.NewBinding(key.WithKeys("t"), key.WithHelp("t/T", "type")),
		PrevType: key.NewBinding(key.WithKeys("T")),
		Group:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "stats")),
	}
}

// paneHelp adapts a KeyMap to help.KeyMap for one pane.
type paneHelp struct {
	keys KeyMap
	pane chart.Kind
}

var _ help.KeyMap = paneHelp{}

func (p paneHelp) ShortHelp() []key.Binding {
	k := p.keys
	var local []key.Binding
	switch p.pane {
	case chart.KindScatter:
		local = []key.Binding{k.Toggle, k.Clear, k.ZoomIn, k.PanLeft, k.NextMark}
	case chart.KindRadar:
		local = []key.Binding{k.NextType, k.Toggle, k.Group, k.Clear, k.NextMark}
	default:
		bar := k.Toggle
		bar.SetHelp("enter", "click bar")
		local = []key.Binding{k.Attribute, k.Sort, bar}
	}
	return append(local, k.NextPane, k.Export, k.CopySVG, k.Help, k.Quit)
}

func (p paneHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{p.ShortHelp()}
}

// newHelp styles a help.Model with the theme.
func newHelp(t Theme) help.Model {
	h := help.New()
	h.ShortSeparator = " · "
	h.Styles.ShortKey = t.KeyHint
	h.Styles.ShortDesc = t.MutedText
	h.Styles.ShortSeparator = t.MutedText
	h.Styles.Ellipsis = t.MutedText
	return h
}
