package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 40

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2F6FB0"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	okIcon     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
	activeIcon = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0A030")).Render("⚙")
	errorIcon  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C03030")).Render("✗")
	queuedIcon = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0A030"))
)

func renderProgress(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	for _, f := range m.Files {
		b.WriteString(renderFileEntry(f))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderProgressBar(m.Completed+m.Failed, len(m.Files)))
	b.WriteString("\n")

	return b.String()
}

func renderHeader(m Model) string {
	title := titleStyle.Render("rirgen - room impulse response synthesis")
	subtitle := subtitleStyle.Render(fmt.Sprintf("Generating %d kernel(s), target DRR %s", len(m.Files), m.TargetDRR))

	return title + "\n" + subtitle
}

func renderFileEntry(f FileProgress) string {
	name := filepath.Base(f.Path)

	switch f.Status {
	case StatusComplete:
		band := ""
		if !f.InBand {
			band = " " + warnStyle.Render("(outside target band)")
		}

		return fmt.Sprintf(" %s %s  %d samples | DRR %.2f dB%s", okIcon, name, f.Samples, f.DRR, band)

	case StatusGenerating:
		return fmt.Sprintf(" %s %s", activeIcon, name)

	case StatusError:
		return fmt.Sprintf(" %s %s\n   Error: %v", errorIcon, name, f.Err)

	default:
		return fmt.Sprintf(" %s %s", queuedIcon, name)
	}
}

func renderProgressBar(done, total int) string {
	if total <= 0 {
		return ""
	}

	filled := done * barWidth / total

	return fmt.Sprintf("[%s%s] %d/%d",
		strings.Repeat("█", filled),
		strings.Repeat("░", barWidth-filled),
		done, total)
}

func renderSummary(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Batch complete"))
	b.WriteString("\n\n")

	for _, f := range m.Files {
		b.WriteString(renderFileEntry(f))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%d written, %d failed in %s",
		m.Completed, m.Failed, time.Since(m.StartTime).Round(time.Millisecond))))
	b.WriteString("\n")

	return b.String()
}
