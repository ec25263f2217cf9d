package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/file-organizer/internal"
)

func (m *model) View() string {
	switch m.state {
	case StateScanning:
		return m.scanningView()
	case StateReview:
		return m.reviewView()
	case StateDeleting:
		return m.deletingView()
	case StateComplete:
		return m.completeView()
	default:
		return "unknown state"
	}
}

func (m *model) scanningView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔍 Scanning for duplicates...") + "\n\n")
	b.WriteString(m.spinner.View() + "\n")
	b.WriteString("  walking " + m.root + " and hashing same-size files\n")

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) reviewView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📦 Duplicate review") + "\n\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n\n")

	b.WriteString(labelStyle.Render(fmt.Sprintf("Found %d duplicate groups under %s", len(m.groups), m.root)) + "\n\n")

	if m.focus == FocusPolicy {
		b.WriteString(focusedStyle.Render(m.policyList.View()) + "\n\n")
	} else {
		b.WriteString(normalStyle.Render(m.policyList.View()) + "\n\n")
	}

	if m.focus == FocusGroups {
		b.WriteString(focusedStyle.Render(m.groupList.View()) + "\n\n")
	} else {
		b.WriteString(normalStyle.Render(m.groupList.View()) + "\n\n")
	}

	mode := "DRY RUN"
	if !m.dryRun {
		mode = "DELETE"
	}
	b.WriteString(labelStyle.Render("Mode: "+mode) + "\n\n")

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(hintStyle.Render("Keys:") + "\n")
	b.WriteString("  • Tab switches focus, Enter picks the keep policy\n")
	b.WriteString("  • d toggles dry-run, x starts the run\n")
	b.WriteString("  • q / Ctrl+C quits\n")

	return lipgloss.NewStyle().
		Padding(1).
		Render(b.String())
}

func (m *model) deletingView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔄 Resolving duplicate groups...") + "\n\n")

	b.WriteString(labelStyle.Render("Progress:") + "\n")
	b.WriteString(m.progressBar.View() + "\n\n")
	b.WriteString(fmt.Sprintf("  %d / %d groups\n\n", m.resolved, len(m.groups)))

	if len(m.records) > 0 {
		last := m.records[len(m.records)-1]
		b.WriteString(labelStyle.Render("Last file:") + "\n")
		b.WriteString(filePathStyle.Render(last.Path) + "\n")
	}

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) completeView() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(errorStyle.Render("✗ Error: "+m.err.Error()) + "\n\n")
		b.WriteString(hintStyle.Render("Press Ctrl+C to quit") + "\n")
		return lipgloss.NewStyle().Padding(2).Render(b.String())
	}

	b.WriteString(successTitleStyle.Render("✅ Done") + "\n\n")
	b.WriteString(statsBoxStyle.Render(m.renderFinalStats()) + "\n\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(hintStyle.Render("Press Enter or Ctrl+C to quit") + "\n")

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) renderFinalStats() string {
	deleted, would, failed := 0, 0, 0
	var freed int64
	for _, rec := range m.records {
		switch rec.Outcome {
		case internal.OutcomeDeleted:
			deleted++
			freed += rec.Size
		case internal.OutcomeWouldDelete:
			would++
			freed += rec.Size
		case internal.OutcomeFailed:
			failed++
		}
	}

	var b strings.Builder
	b.WriteString("📊 Results:\n\n")
	b.WriteString(fmt.Sprintf("  duplicate groups:  %d\n", len(m.groups)))
	if would > 0 {
		b.WriteString(fmt.Sprintf("  would delete:      %d files\n", would))
		b.WriteString(fmt.Sprintf("  reclaimable:       %s\n", formatBytes(freed)))
	} else {
		b.WriteString(fmt.Sprintf("  deleted:           %d files\n", deleted))
		b.WriteString(fmt.Sprintf("  freed space:       %s\n", formatBytes(freed)))
	}
	if failed > 0 {
		b.WriteString(fmt.Sprintf("  failed:            %d files\n", failed))
	}
	return b.String()
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
