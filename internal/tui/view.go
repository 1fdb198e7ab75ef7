package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fragsort/internal/assemble"
	"fragsort/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	adviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	overlapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Sky Blue/Cyan
			Bold(true)

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

const helpText = `fragsort

Browse the reconstructed chain.

  ↑/↓ j/k    move
  g/G        first / last
  /          filter chain by substring
  x          toggle excluded fragments
  d          full report (scroll with ↑/↓, PgUp/PgDn)
  ?          this help
  esc        close panel / clear filter
  q          quit`

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Assembling fragments... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}
	if m.ShowHelp {
		return m.renderDialog(helpText, borderColor)
	}
	if m.ShowReport {
		return m.renderReport()
	}

	// Subtracting 6 for horizontal margin (borders x2 + buffer)
	width := m.WindowSize.Width
	height := m.WindowSize.Height

	netWidth := max(width-6, 20)
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth
	boxHeight := max(height-6, 6)
	interiorHeight := max(boxHeight-2, 2)

	var left, right string
	if m.ShowExcluded {
		left = m.renderExcludedList(leftWidth, interiorHeight)
		right = m.renderExcludedDetails()
	} else {
		left = m.renderChainList(leftWidth, interiorHeight)
		right = m.renderChainDetails()
	}

	leftBox := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(activeColor).
		Render(left)

	rightBox := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(clipLines(right, interiorHeight, rightWidth))

	help := "↑/↓: Navigate • /: Filter • x: Excluded • d: Report • ?: Help • q: Quit"
	if m.ShowExcluded {
		help = "Excluded Mode: ↑/↓: Navigate • x/Esc: Back to Chain • d: Report • q: Quit"
	}
	footer := "\n" + m.statusLine() + "\n" + help
	if m.InputMode {
		footer = fmt.Sprintf("\n\nFilter: %s", m.InputBuffer.View())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox) + footer
}

func (m AppModel) statusLine() string {
	a := m.Result.Assembly
	status := fmt.Sprintf("%d/%d fragments in chain, %d excluded", a.Chain.Len(), a.Input, len(a.Excluded))
	if a.Validation.Valid {
		status += " • valid"
	} else {
		status += adviceStyle.Render(fmt.Sprintf(" • INVALID at %d", a.Validation.FailIndex))
	}
	if m.Result.Saved {
		status += " • saved to " + m.Result.OutputPath
	}
	if a.Search.Truncated {
		status += adviceStyle.Render(" • search stopped early")
	}
	return dimStyle.Render(status)
}

// window returns the slice bounds that keep selected roughly centred.
func window(total, selected, visible int) (int, int) {
	if total <= visible {
		return 0, total
	}
	start := 0
	if selected >= visible/2 {
		start = selected - visible/2
	}
	if start+visible > total {
		start = total - visible
	}
	return start, start + visible
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width > 5 && len(r) > width {
		return string(r[:width-3]) + "..."
	}
	return s
}

func (m AppModel) renderChainList(width, height int) string {
	var b strings.Builder
	title := "Chain"
	if m.SearchActive {
		title = fmt.Sprintf("Chain (filter: %s)", m.InputBuffer.Value())
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	a := m.Result.Assembly
	if len(m.FilteredIndices) == 0 {
		b.WriteString(dimStyle.Render("No fragments."))
		return b.String()
	}

	start, end := window(len(m.FilteredIndices), m.SelectedIdx, max(height-2, 1))
	for i := start; i < end; i++ {
		idx := m.FilteredIndices[i]
		f := a.Chain[idx]

		icon := model.IconLink
		switch {
		case !a.Validation.Valid && idx == a.Validation.FailIndex:
			icon = model.IconBroken
		case idx == a.Chain.Len()-1:
			icon = model.IconTail
		case idx == 0:
			icon = model.IconHead
		}
		line := fmt.Sprintf("%4d. %s %s  (out %d)", idx+1, icon, f, a.OutDegree[string(f)])
		line = truncate(line, width-2)

		if i == m.SelectedIdx {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(normalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// mergedOffset is where chain[i] starts inside the merged value.
func mergedOffset(chain model.Chain, i, k int) int {
	off := 0
	for j := 0; j < i; j++ {
		off += len(chain[j]) - k
	}
	return off
}

func (m AppModel) renderChainDetails() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Details"))
	b.WriteString("\n")

	a := m.Result.Assembly
	if len(m.FilteredIndices) == 0 || m.SelectedIdx >= len(m.FilteredIndices) {
		b.WriteString("\nNo fragment selected.")
		return b.String()
	}
	idx := m.FilteredIndices[m.SelectedIdx]
	f := a.Chain[idx]
	k := a.Overlap

	fmt.Fprintf(&b, "\nFragment:   %s", f)
	fmt.Fprintf(&b, "\nPosition:   %d of %d", idx+1, a.Chain.Len())
	fmt.Fprintf(&b, "\nOut-degree: %d", a.OutDegree[string(f)])
	if f == a.Start {
		b.WriteString("\nSearch started here.")
	}
	if a.Validation.Valid {
		off := mergedOffset(a.Chain, idx, k)
		fmt.Fprintf(&b, "\nMerged:     chars %d-%d", off+1, off+len(f))
	}

	b.WriteString("\n\n--- Overlaps ---")
	if idx > 0 {
		prev := a.Chain[idx-1]
		fmt.Fprintf(&b, "\nAfter  %s  %s", prev, linkLabel(prev, f, k))
	} else {
		b.WriteString("\nHead of chain.")
	}
	if idx < a.Chain.Len()-1 {
		next := a.Chain[idx+1]
		fmt.Fprintf(&b, "\nBefore %s  %s", next, linkLabel(f, next, k))
	} else {
		b.WriteString("\nTail of chain.")
	}

	if a.Validation.Valid && a.Merged != "" {
		off := mergedOffset(a.Chain, idx, k)
		ctxFrom := max(off-k, 0)
		ctxTo := min(off+len(f)+k, len(a.Merged))
		b.WriteString("\n\n--- Merged Context ---\n")
		b.WriteString(dimStyle.Render(a.Merged[ctxFrom:off]))
		b.WriteString(overlapStyle.Render(a.Merged[off : off+len(f)]))
		b.WriteString(dimStyle.Render(a.Merged[off+len(f) : ctxTo]))
	}
	return b.String()
}

func linkLabel(a, b model.Fragment, k int) string {
	if assemble.Overlaps(a, b, k) {
		return overlapStyle.Render(fmt.Sprintf("%s overlap %q", model.IconLink, a.Suffix(k)))
	}
	return adviceStyle.Render(fmt.Sprintf("%s %q != %q", model.IconBroken, a.Suffix(k), b.Prefix(k)))
}

func (m AppModel) renderExcludedList(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Excluded Fragments"))
	b.WriteString("\n\n")

	ex := m.Result.Assembly.Excluded
	if len(ex) == 0 {
		b.WriteString(dimStyle.Render("Every fragment was placed."))
		return b.String()
	}
	start, end := window(len(ex), m.SelectedIdx, max(height-2, 1))
	for i := start; i < end; i++ {
		line := truncate(fmt.Sprintf("%4d. %s %s", i+1, model.IconExcluded, ex[i]), width-2)
		if i == m.SelectedIdx {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(normalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m AppModel) renderExcludedDetails() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Why Excluded"))
	b.WriteString("\n")

	a := m.Result.Assembly
	if len(a.Excluded) == 0 || m.SelectedIdx >= len(a.Excluded) {
		return b.String()
	}
	f := a.Excluded[m.SelectedIdx]
	k := a.Overlap
	fmt.Fprintf(&b, "\nFragment:   %s", f)

	if a.Chain.Contains(f) {
		b.WriteString("\n\nDuplicate of a fragment already in the chain.")
		return b.String()
	}

	var after, before []string
	for i, c := range a.Chain {
		if assemble.Overlaps(c, f, k) {
			after = append(after, fmt.Sprintf("%d (%s)", i+1, c))
		}
		if assemble.Overlaps(f, c, k) {
			before = append(before, fmt.Sprintf("%d (%s)", i+1, c))
		}
	}
	if len(after) == 0 && len(before) == 0 {
		b.WriteString("\n\nNo overlap with any chain fragment.")
		return b.String()
	}
	if len(after) > 0 {
		b.WriteString("\n\nCould follow interior position(s):\n  " + strings.Join(after, "\n  "))
	}
	if len(before) > 0 {
		b.WriteString("\n\nCould precede interior position(s):\n  " + strings.Join(before, "\n  "))
	}
	b.WriteString(adviceStyle.Render("\n\nOnly chain ends accept new fragments."))
	return b.String()
}

func clipLines(s string, height, width int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		if lipgloss.Width(l) > width && !strings.Contains(l, "\x1b") {
			lines[i] = truncate(l, width)
		}
	}
	return strings.Join(lines, "\n")
}

func (m AppModel) renderReport() string {
	title := titleStyle.Render("Report")
	footer := dimStyle.Render(fmt.Sprintf("\n%3.f%% • ↑/↓ PgUp/PgDn: Scroll • d/Esc: Close", m.ReportViewport.ScrollPercent()*100))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(title + "\n" + m.ReportViewport.View() + footer)
}

func (m AppModel) renderDialog(content string, color lipgloss.Color) string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}
	dialog := lipgloss.NewStyle().
		Width(min(max(w*60/100, 40), w-4)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(content)

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, dialog)
}
