package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/dexviz/pkg/chart"
)

// renderBarPreview draws one row per bar: label, a block bar scaled to the
// largest count, and the count. cursor marks the focused bar.
func renderBarPreview(t Theme, f chart.Frame, highlight string, cursor, width, rows int) string {
	if len(f.Marks) == 0 {
		return t.MutedText.Render("No data for " + f.Title)
	}
	r := t.Renderer

	labelW := 0
	maxCount := 0.0
	for _, m := range f.Marks {
		labelW = max(labelW, runewidth.StringWidth(m.Key))
		if len(m.Data) > 0 {
			maxCount = math.Max(maxCount, m.Data[0])
		}
	}
	labelW = min(labelW, width/3)
	countW := len(fmt.Sprint(int(maxCount)))
	barW := width - labelW - countW - 4
	if barW < 1 {
		barW = 1
	}

	var b strings.Builder
	b.WriteString(t.Base.Bold(true).Render(f.Title))
	b.WriteString("\n")

	start, end := window(len(f.Marks), cursor, rows-1)
	for i := start; i < end; i++ {
		m := f.Marks[i]
		count := 0.0
		if len(m.Data) > 0 {
			count = m.Data[0]
		}
		n := 0
		if maxCount > 0 {
			n = int(math.Round(count / maxCount * float64(barW)))
		}
		if n == 0 && count > 0 {
			n = 1
		}

		color := ColorBar
		if m.Key == highlight {
			color = ColorBarHighlight
		}

		marker := " "
		label := fit(m.Key, labelW)
		if i == cursor {
			marker = t.KeyHint.Render("›")
			label = t.Selected.Render(label)
		}
		bar := r.NewStyle().Foreground(color).Render(strings.Repeat("█", n))
		fmt.Fprintf(&b, "%s %s %s %*d\n", marker, label, bar+strings.Repeat(" ", barW-n), countW, int(count))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderScatterPreview plots defined points on a character grid through the
// frame's viewport and lists per-type counts under it.
func renderScatterPreview(t Theme, f chart.Frame, focus, width int) string {
	if len(f.Legend) == 0 {
		return t.MutedText.Render("Check up to 5 types to plot height against weight.")
	}
	r := t.Renderer

	cols := max(width-2, 10)
	left, top := f.Margin.Left, f.Margin.Top
	plotW := float64(f.Width) - f.Margin.Left - f.Margin.Right
	plotH := float64(f.Height) - f.Margin.Top - f.Margin.Bottom

	grid := make([][]string, ScatterGridRows)
	for i := range grid {
		grid[i] = make([]string, cols)
	}
	counts := make(map[string]int)
	undefined := 0
	for i, m := range f.Marks {
		if !m.Defined {
			undefined++
			continue
		}
		counts[m.Visual.Fill]++
		p := f.Viewport.Apply(chart.Point{X: m.Visual.X, Y: m.Visual.Y})
		if p.X < left || p.X > left+plotW || p.Y < top || p.Y > top+plotH {
			continue
		}
		c := min(int((p.X-left)/plotW*float64(cols)), cols-1)
		row := min(int((p.Y-top)/plotH*float64(ScatterGridRows)), ScatterGridRows-1)
		glyph := "•"
		if i == focus {
			glyph = "◉"
		} else if grid[row][c] != "" && strings.Contains(grid[row][c], "◉") {
			continue
		}
		grid[row][c] = r.NewStyle().Foreground(ThemeFg(m.Visual.Fill)).Render(glyph)
	}

	var b strings.Builder
	b.WriteString(t.Base.Bold(true).Render(f.Title))
	if !f.Viewport.IsIdentity() {
		b.WriteString(t.MutedText.Render(fmt.Sprintf("  zoom %.2fx", f.Viewport.K)))
	}
	b.WriteString("\n")
	border := t.MutedText.Render("│")
	for _, line := range grid {
		b.WriteString(border)
		for _, cell := range line {
			if cell == "" {
				cell = " "
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	b.WriteString(t.MutedText.Render("└" + strings.Repeat("─", cols)))
	b.WriteString("\n")

	if f.XAxis != nil && f.YAxis != nil {
		b.WriteString(t.MutedText.Render(fmt.Sprintf("x %s %s–%s   y %s %s–%s",
			f.XAxis.Label, formatStat(f.XAxis.Domain[0]), formatStat(f.XAxis.Domain[1]),
			f.YAxis.Label, formatStat(f.YAxis.Domain[0]), formatStat(f.YAxis.Domain[1]))))
		b.WriteString("\n")
	}
	for _, e := range f.Legend {
		fmt.Fprintf(&b, "%s %s %d\n", swatch(r, e.Color), e.Label, counts[e.Color])
	}
	if undefined > 0 {
		b.WriteString(t.MutedText.Render(fmt.Sprintf("%d without height or weight", undefined)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderRadarPreview lists the axis order and one stat row per polygon.
func renderRadarPreview(t Theme, f chart.Frame, focus, width int) string {
	var b strings.Builder
	b.WriteString(t.Base.Bold(true).Render(f.Title))
	b.WriteString("\n")
	if len(f.Marks) == 0 {
		b.WriteString(t.MutedText.Render("Pick a type with t, then check up to 5 Pokémon."))
		return b.String()
	}
	r := t.Renderer

	const cellW = 7
	nameW := max(width-len(f.Spokes)*cellW-2, 8)
	nameW = min(nameW, 24)

	b.WriteString(strings.Repeat(" ", nameW+2))
	for _, s := range f.Spokes {
		b.WriteString(t.MutedText.Render(fmt.Sprintf("%*s", cellW, truncate(s.Label, cellW-1))))
	}
	b.WriteString("\n")
	for i, m := range f.Marks {
		name := fit(m.Key, nameW)
		if i == focus {
			name = t.Selected.Render(name)
		}
		b.WriteString(swatch(r, m.Visual.Fill) + " " + name)
		for _, v := range m.Data {
			fmt.Fprintf(&b, "%*s", cellW, formatStat(v))
		}
		b.WriteString("\n")
	}
	if f.Caption != "" {
		b.WriteString(t.MutedText.Render(truncate(f.Caption, width)))
	}
	return strings.TrimRight(b.String(), "\n")
}
