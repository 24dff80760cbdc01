package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/dexviz/pkg/chart"
)

// ContextHelpContent holds the markdown help for each pane.
var ContextHelpContent = map[chart.Kind]string{
	chart.KindBar:     contextHelpBar,
	chart.KindScatter: contextHelpScatter,
	chart.KindRadar:   contextHelpRadar,
}

// GetContextHelp returns the pane's help followed by the global keys.
func GetContextHelp(kind chart.Kind) string {
	return ContextHelpContent[kind] + "\n\n" + contextHelpGlobal
}

// RenderContextHelp renders the help modal for a pane. Markdown goes
// through glamour; if the renderer cannot be built the raw text is shown.
func RenderContextHelp(kind chart.Kind, theme Theme, width int) string {
	modalWidth := 64
	if modalWidth > width-4 {
		modalWidth = width - 4
	}
	if modalWidth < 20 {
		modalWidth = 20
	}

	content := GetContextHelp(kind)
	style := "light"
	switch {
	case theme.Plain:
		style = "notty"
	case theme.Dark:
		style = "dark"
	}
	if md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(modalWidth-6),
	); err == nil {
		if out, err := md.Render(content); err == nil {
			content = strings.TrimRight(out, " \n")
		}
	}

	r := theme.Renderer
	footer := r.NewStyle().
		Foreground(theme.Muted).
		Italic(true).
		Render("Press any key to close")

	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(0, 1).
		Width(modalWidth).
		Render(content + "\n\n" + footer)
}

const contextHelpBar = `## Bar chart

Counts records per value of the grouping attribute.

| Key | Action |
|-----|--------|
| a | Cycle attribute (Type_1, Type_2, Color, Body_Style, Generation, Egg_Group_1) |
| s | Toggle sort: count / label |
| j/k | Move between bars |
| Enter | Click bar: highlight it and select its type in the scatter and radar |`

const contextHelpScatter = `## Scatter plot

Height against weight for the checked types (at most 5).

| Key | Action |
|-----|--------|
| j/k | Move in the type list |
| Space | Toggle type |
| c | Clear types and reset zoom |
| + / - | Zoom in / out |
| 0 | Reset zoom |
| Shift+arrows | Pan |
| n/p | Focus next / previous point |`

const contextHelpRadar = `## Radar chart

Compares battle stats for up to 5 Pokémon. Axes are ordered by the mean of
the selected Pokémon, highest first.

| Key | Action |
|-----|--------|
| t / T | Next / previous type in the dropdown |
| j/k | Move in the name list |
| Space | Toggle name |
| g | Cycle stat group: all, offense, defense |
| c | Clear selection |
| n/p | Focus next / previous polygon |`

const contextHelpGlobal = `## Everywhere

| Key | Action |
|-----|--------|
| Tab / Shift+Tab | Switch chart |
| e | Export charts to the configured directory |
| y | Copy this chart's SVG |
| ? | Toggle help |
| q / Ctrl+C | Quit |`
