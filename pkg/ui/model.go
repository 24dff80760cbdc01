// Package ui is the terminal control panel: one pane per chart with the
// controls that drive the shared session, a text preview of the current
// frame, and export/copy shortcuts.
package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/dexviz/pkg/chart"
	"github.com/vanderheijden86/dexviz/pkg/config"
	"github.com/vanderheijden86/dexviz/pkg/debug"
	"github.com/vanderheijden86/dexviz/pkg/export"
	"github.com/vanderheijden86/dexviz/pkg/model"
	"github.com/vanderheijden86/dexviz/pkg/selection"
	"github.com/vanderheijden86/dexviz/pkg/session"
)

// Viewport steps for the scatter pane.
const (
	ZoomStep = 1.25
	PanStep  = 20.0
)

// FileChangedMsg is sent by the program's owner when the dataset file has
// changed on disk; the model answers with a reload.
type FileChangedMsg struct{}

// DatasetLoadedMsg carries the result of a reload.
type DatasetLoadedMsg struct {
	Dataset model.Dataset
	Err     error
}

// ExportDoneMsg reports the files written by the export key.
type ExportDoneMsg struct {
	Paths []string
	Err   error
}

// ReloadCmd runs load off the update loop.
func ReloadCmd(load func() (model.Dataset, error)) tea.Cmd {
	return func() tea.Msg {
		ds, err := load()
		return DatasetLoadedMsg{Dataset: ds, Err: err}
	}
}

// ExportCmd writes frames with opts. Frames are values, so the render pass
// they came from is not touched.
func ExportCmd(frames session.Frames, opts export.SaveOptions) tea.Cmd {
	return func() tea.Msg {
		paths, err := export.SaveCharts(context.Background(), frames, opts)
		return ExportDoneMsg{Paths: paths, Err: err}
	}
}

// Options configures a Model beyond its session.
type Options struct {
	Config config.Config
	// Reload loads the dataset again on FileChangedMsg.
	Reload func() (model.Dataset, error)
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
	Renderer  *lipgloss.Renderer
}

// Model is the bubbletea model for the control panel.
type Model struct {
	sess   *session.Session
	frames session.Frames
	cfg    config.Config
	theme  Theme
	keys   KeyMap
	help   help.Model

	pane        chart.Kind
	barCursor   int
	typeCursor  int
	nameCursor  int
	markFocus   map[chart.Kind]int
	modal       string
	showHelp    bool
	status      string
	statusIsErr bool

	width  int
	height int

	reload    func() (model.Dataset, error)
	clipboard func(string) error
}

// NewModel builds a panel over s and renders the first frames.
func NewModel(s *session.Session, opts Options) Model {
	r := opts.Renderer
	if r == nil {
		r = lipgloss.NewRenderer(os.Stdout)
	}
	cfg := opts.Config
	if cfg.Export.Dir == "" {
		cfg.Export = config.DefaultConfig().Export
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	theme := NewTheme(r, cfg.UI.Theme)
	m := Model{
		sess:      s,
		cfg:       cfg,
		theme:     theme,
		keys:      DefaultKeyMap(),
		help:      newHelp(theme),
		pane:      chart.KindBar,
		markFocus: map[chart.Kind]int{chart.KindScatter: -1, chart.KindRadar: -1},
		width:     100,
		height:    32,
		reload:    opts.Reload,
		clipboard: copyFn,
	}
	if k := chart.Kind(cfg.UI.DefaultPane); slices.Contains(chart.Kinds, k) {
		m.pane = k
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case FileChangedMsg:
		if m.reload == nil {
			return m, nil
		}
		return m, ReloadCmd(m.reload)

	case DatasetLoadedMsg:
		if msg.Err != nil {
			m.setError(fmt.Errorf("reload: %w", msg.Err))
			return m, nil
		}
		s := session.New(msg.Dataset)
		if err := s.ApplyConfig(m.cfg.Charts); err != nil {
			debug.Log("reload: chart config: %v", err)
		}
		m.sess = s
		m.barCursor, m.typeCursor, m.nameCursor = 0, 0, 0
		m.markFocus = map[chart.Kind]int{chart.KindScatter: -1, chart.KindRadar: -1}
		m.modal = ""
		m.refresh()
		m.setStatus(fmt.Sprintf("Reloaded %d records", msg.Dataset.Len()))
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			m.setError(fmt.Errorf("export: %w", msg.Err))
		} else {
			m.setStatus(fmt.Sprintf("Exported %d file(s) to %s", len(msg.Paths), m.cfg.Export.Dir))
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	if key.Matches(msg, k.ForceQuit) {
		return m, tea.Quit
	}

	// The capacity warning blocks every other control until dismissed.
	if m.modal != "" {
		if key.Matches(msg, k.Dismiss) {
			m.modal = ""
		}
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.NextPane):
		m.pane = m.cyclePane(1)
		return m, nil
	case key.Matches(msg, k.PrevPane):
		m.pane = m.cyclePane(-1)
		return m, nil
	case key.Matches(msg, k.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, k.Export):
		return m, m.exportCmd()
	case key.Matches(msg, k.CopySVG):
		m.copySVG()
		return m, nil
	case key.Matches(msg, k.NextMark):
		m.moveMarkFocus(1)
		return m, nil
	case key.Matches(msg, k.PrevMark):
		m.moveMarkFocus(-1)
		return m, nil
	}

	switch m.pane {
	case chart.KindScatter:
		m = m.handleScatterKeys(msg)
	case chart.KindRadar:
		m = m.handleRadarKeys(msg)
	default:
		m = m.handleBarKeys(msg)
	}
	return m, nil
}

func (m Model) handleBarKeys(msg tea.KeyMsg) Model {
	k := m.keys
	n := len(m.frames.Bar.Marks)
	switch {
	case key.Matches(msg, k.Down):
		m.barCursor = clamp(m.barCursor+1, n)
	case key.Matches(msg, k.Up):
		m.barCursor = clamp(m.barCursor-1, n)
	case key.Matches(msg, k.Attribute):
		i := slices.Index(model.BarAttributes, m.sess.Bar.Attribute)
		next := model.BarAttributes[(i+1)%len(model.BarAttributes)]
		if err := m.sess.SetBarAttribute(next); err != nil {
			m.setError(err)
			return m
		}
		m.barCursor = 0
		m.refresh()
		m.setStatus("Grouping by " + next)
	case key.Matches(msg, k.Sort):
		m.sess.SetBarSort(m.sess.Bar.Sort.Toggle())
		m.refresh()
		m.setStatus("Sorted by " + m.sess.Bar.Sort.String())
	case key.Matches(msg, k.Toggle):
		if n == 0 {
			return m
		}
		label := m.frames.Bar.Marks[clamp(m.barCursor, n)].Key
		if err := m.sess.ClickBar(label); err != nil {
			m.handleErr(err)
		}
		m.refresh()
		// Keep the cursor on the clicked bar across re-sorts.
		if i := slices.Index(m.frames.Bar.Keys(), label); i >= 0 {
			m.barCursor = i
		}
		if m.sess.Radar.Type == label {
			m.setStatus(fmt.Sprintf("%s: scatter and radar updated", label))
		} else {
			m.setStatus(label + ": not a type, scatter and radar cleared")
		}
	}
	return m
}

func (m Model) handleScatterKeys(msg tea.KeyMsg) Model {
	k := m.keys
	cats := m.sess.Categories()
	switch {
	case key.Matches(msg, k.Down):
		m.typeCursor = clamp(m.typeCursor+1, len(cats))
	case key.Matches(msg, k.Up):
		m.typeCursor = clamp(m.typeCursor-1, len(cats))
	case key.Matches(msg, k.Toggle):
		if len(cats) == 0 {
			return m
		}
		cat := cats[clamp(m.typeCursor, len(cats))]
		if _, err := m.sess.ToggleScatterType(cat); err != nil {
			m.handleErr(err)
			return m
		}
		m.refresh()
	case key.Matches(msg, k.Clear):
		m.sess.ClearScatter()
		m.refresh()
	case key.Matches(msg, k.ZoomIn):
		m.sess.ZoomScatter(ZoomStep)
		m.refresh()
	case key.Matches(msg, k.ZoomOut):
		m.sess.ZoomScatter(1 / ZoomStep)
		m.refresh()
	case key.Matches(msg, k.ResetView):
		m.sess.Viewport = chart.Identity
		m.refresh()
	case key.Matches(msg, k.PanLeft):
		m.sess.PanScatter(PanStep, 0)
		m.refresh()
	case key.Matches(msg, k.PanRight):
		m.sess.PanScatter(-PanStep, 0)
		m.refresh()
	case key.Matches(msg, k.PanUp):
		m.sess.PanScatter(0, PanStep)
		m.refresh()
	case key.Matches(msg, k.PanDown):
		m.sess.PanScatter(0, -PanStep)
		m.refresh()
	}
	return m
}

func (m Model) handleRadarKeys(msg tea.KeyMsg) Model {
	k := m.keys
	choices := m.sess.RadarChoices()
	switch {
	case key.Matches(msg, k.Down):
		m.nameCursor = clamp(m.nameCursor+1, len(choices))
	case key.Matches(msg, k.Up):
		m.nameCursor = clamp(m.nameCursor-1, len(choices))
	case key.Matches(msg, k.NextType, k.PrevType):
		step := 1
		if key.Matches(msg, k.PrevType) {
			step = -1
		}
		cats := m.sess.Categories()
		if len(cats) == 0 {
			return m
		}
		i := slices.Index(cats, m.sess.Radar.Type)
		if i < 0 && step < 0 {
			i = 0
		}
		next := cats[(i+step+len(cats))%len(cats)]
		if err := m.sess.SelectRadarType(next); err != nil {
			m.setError(err)
			return m
		}
		m.nameCursor = 0
	case key.Matches(msg, k.Toggle):
		if len(choices) == 0 {
			return m
		}
		name := choices[clamp(m.nameCursor, len(choices))].Name
		if _, err := m.sess.ToggleRadarEntity(name); err != nil {
			m.handleErr(err)
			return m
		}
		m.refresh()
	case key.Matches(msg, k.Group):
		m.sess.SetStatGroup(m.sess.Radar.Group.Next())
		m.refresh()
		m.setStatus("Stat group: " + m.sess.Radar.Group.String())
	case key.Matches(msg, k.Clear):
		m.sess.ClearRadar()
		m.refresh()
	}
	return m
}

func (m Model) cyclePane(step int) chart.Kind {
	i := slices.Index(chart.Kinds, m.pane)
	n := len(chart.Kinds)
	return chart.Kinds[((i+step)%n+n)%n]
}

// moveMarkFocus steps the tooltip focus through the pane's marks. On the
// bar pane the cursor is the focus.
func (m *Model) moveMarkFocus(step int) {
	if m.pane == chart.KindBar {
		m.barCursor = clamp(m.barCursor+step, len(m.frames.Bar.Marks))
		return
	}
	n := len(m.frames.Get(m.pane).Marks)
	if n == 0 {
		m.markFocus[m.pane] = -1
		return
	}
	m.markFocus[m.pane] = ((m.markFocus[m.pane]+step)%n + n) % n
}

// refresh re-renders every chart after a state change.
func (m *Model) refresh() {
	m.frames = m.sess.Render()
	m.barCursor = clamp(m.barCursor, len(m.frames.Bar.Marks))
	for _, k := range []chart.Kind{chart.KindScatter, chart.KindRadar} {
		if m.markFocus[k] >= len(m.frames.Get(k).Marks) {
			m.markFocus[k] = -1
		}
	}
}

func (m *Model) handleErr(err error) {
	var capErr *selection.CapacityError
	if errors.As(err, &capErr) {
		m.modal = capErr.Error()
		return
	}
	m.setError(err)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusIsErr = false
}

func (m *Model) setError(err error) {
	debug.Log("ui: %v", err)
	m.status = err.Error()
	m.statusIsErr = true
}

func (m Model) exportCmd() tea.Cmd {
	charts, err := export.ParseCharts(m.cfg.Export.Charts)
	if err != nil {
		return func() tea.Msg { return ExportDoneMsg{Err: err} }
	}
	format, err := export.ParseFormat(m.cfg.Export.Format)
	if err != nil {
		return func() tea.Msg { return ExportDoneMsg{Err: err} }
	}
	return ExportCmd(m.frames, export.SaveOptions{
		Dir:    m.cfg.Export.Dir,
		Format: format,
		Charts: charts,
	})
}

func (m *Model) copySVG() {
	var buf bytes.Buffer
	if err := export.RenderSVG(&buf, m.frames.Get(m.pane)); err != nil {
		m.setError(err)
		return
	}
	if err := m.clipboard(buf.String()); err != nil {
		m.setError(fmt.Errorf("clipboard: %w", err))
		return
	}
	m.setStatus(fmt.Sprintf("Copied %s chart SVG (%d bytes)", m.pane, buf.Len()))
}

// Pane returns the focused chart.
func (m Model) Pane() chart.Kind { return m.pane }

// Session returns the session the panel drives.
func (m Model) Session() *session.Session { return m.sess }

// Frames returns the most recent render pass.
func (m Model) Frames() session.Frames { return m.frames }

// ModalText returns the blocking warning, or "" when none is shown.
func (m Model) ModalText() string { return m.modal }

// ShowingHelp reports whether the help overlay is open.
func (m Model) ShowingHelp() bool { return m.showHelp }

// Status returns the footer message and whether it is an error.
func (m Model) Status() (string, bool) { return m.status, m.statusIsErr }

// FocusedTooltip returns the tooltip of the focused mark on the current pane.
func (m Model) FocusedTooltip() string {
	f := m.frames.Get(m.pane)
	i := m.barCursor
	if m.pane != chart.KindBar {
		i = m.markFocus[m.pane]
	}
	if i < 0 || i >= len(f.Marks) {
		return ""
	}
	return f.Marks[i].Tooltip
}

func (m Model) View() string {
	t := m.theme
	if m.modal != "" {
		return m.place(m.renderModal())
	}
	if m.showHelp {
		return m.place(RenderContextHelp(m.pane, t, m.width))
	}

	header := m.renderTabs()
	bodyRows := max(m.height-5, 6)
	previewW := max(m.width-ControlPaneWidth-6, MinPreviewWidth)

	controls := t.Pane.Width(ControlPaneWidth).Height(bodyRows).Render(m.renderControls(bodyRows))
	var preview string
	switch m.pane {
	case chart.KindScatter:
		preview = renderScatterPreview(t, m.frames.Scatter, m.markFocus[chart.KindScatter], previewW)
	case chart.KindRadar:
		preview = renderRadarPreview(t, m.frames.Radar, m.markFocus[chart.KindRadar], previewW)
	default:
		preview = renderBarPreview(t, m.frames.Bar, m.sess.Bar.Highlight, m.barCursor, previewW, bodyRows)
	}
	preview = t.Renderer.NewStyle().Width(previewW).MaxHeight(bodyRows+2).PaddingLeft(SpaceXS).Render(preview)
	body := lipgloss.JoinHorizontal(lipgloss.Top, controls, preview)

	tooltip := t.MutedText.Render(truncate(oneLine(m.FocusedTooltip()), m.width))
	return lipgloss.NewStyle().
		Width(m.width).
		MaxHeight(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body, tooltip, m.renderFooter()))
}

func (m Model) place(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderTabs() string {
	t := m.theme
	parts := []string{t.Header.Render("dexviz")}
	for _, k := range chart.Kinds {
		name := strings.ToUpper(string(k[:1])) + string(k[1:])
		if k == m.pane {
			parts = append(parts, t.ActiveTab.Render(name))
		} else {
			parts = append(parts, t.Tab.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderControls(rows int) string {
	t := m.theme
	w := ControlPaneWidth - 2
	var b strings.Builder

	switch m.pane {
	case chart.KindScatter:
		fmt.Fprintf(&b, "%s %d/%d\n", t.KeyHint.Render("Types"), m.sess.Types.Len(), selection.Capacity)
		cats := m.sess.Categories()
		start, end := window(len(cats), m.typeCursor, rows-1)
		for i := start; i < end; i++ {
			b.WriteString(m.checkRow(cats[i], m.sess.Types.Has(cats[i]), m.sess.Types.ColorOf, i == m.typeCursor, w))
		}

	case chart.KindRadar:
		typ := m.sess.Radar.Type
		if typ == "" {
			typ = "(choose with t)"
		}
		fmt.Fprintf(&b, "%s %s\n", t.KeyHint.Render("Type"), truncate(typ, w-5))
		fmt.Fprintf(&b, "%s %s  %d/%d\n", t.KeyHint.Render("Stats"), m.sess.Radar.Group, m.sess.Radar.Entities.Len(), selection.Capacity)
		choices := m.sess.RadarChoices()
		start, end := window(len(choices), m.nameCursor, rows-2)
		for i := start; i < end; i++ {
			name := choices[i].Name
			b.WriteString(m.checkRow(name, m.sess.Radar.Entities.Has(name), m.sess.Radar.Entities.ColorOf, i == m.nameCursor, w))
		}

	default:
		fmt.Fprintf(&b, "%s %s\n", t.KeyHint.Render("Attribute"), truncate(m.sess.Bar.Attribute, w-10))
		fmt.Fprintf(&b, "%s %s\n", t.KeyHint.Render("Sort"), m.sess.Bar.Sort)
		if h := m.sess.Bar.Highlight; h != "" {
			fmt.Fprintf(&b, "%s %s\n", t.KeyHint.Render("Clicked"), truncate(h, w-8))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) checkRow(label string, checked bool, colorOf func(string) (string, bool), focused bool, width int) string {
	mark := " " + checkbox(checked)
	if c, ok := colorOf(label); ok {
		mark = swatch(m.theme.Renderer, c) + checkbox(checked)
	}
	text := fit(label, width-5)
	if focused {
		text = m.theme.Selected.Render(text)
	}
	return mark + " " + text + "\n"
}

func (m Model) renderModal() string {
	t := m.theme
	r := t.Renderer

	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Danger).
		Padding(1, 3).
		Align(lipgloss.Center)

	content := t.ErrorText.Render(m.modal) + "\n\n" +
		t.MutedText.Render("Press ") + t.KeyHint.Render("Enter") +
		t.MutedText.Render(" or ") + t.KeyHint.Render("Esc")
	return box.Render(content)
}

func (m Model) renderFooter() string {
	t := m.theme
	if m.status != "" {
		if m.statusIsErr {
			return t.ErrorText.Render(truncate(m.status, m.width))
		}
		return t.Base.Render(truncate(m.status, m.width))
	}
	h := m.help
	h.Width = m.width
	return h.View(paneHelp{keys: m.keys, pane: m.pane})
}
