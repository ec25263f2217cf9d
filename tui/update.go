package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/dedup"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || (msg.String() == "q" && m.state != StateReview) {
			return m, tea.Quit
		}

		if m.state == StateReview {
			return m.updateReview(msg)
		}
		if m.state == StateComplete && msg.String() == "enter" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.handleResize(msg)

	case scanDoneMsg:
		m.setResult(msg.result)
		if len(m.groups) == 0 {
			m.state = StateComplete
			return m, nil
		}
		m.state = StateReview
		m.updateFocusState()
		return m, nil

	case groupResolvedMsg:
		m.records = append(m.records, msg.records...)
		m.resolved = msg.index + 1

		percent := float64(m.resolved) / float64(len(m.groups))
		cmds = append(cmds, m.progressBar.SetPercent(percent))

		if m.resolved < len(m.groups) {
			cmds = append(cmds, m.resolveGroupCmd(m.resolved))
		} else {
			m.state = StateComplete
			m.logFinalStats()
		}
		return m, tea.Batch(cmds...)

	case errMsg:
		m.err = msg
		m.state = StateComplete
		return m, nil

	case spinnerTickMsg:
		if m.state == StateScanning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(m.spinner.Tick())
			return m, tea.Batch(cmd, spinnerTick())
		}
	}

	if m.state == StateReview {
		var cmd tea.Cmd
		m.policyList, cmd = m.policyList.Update(msg)
		cmds = append(cmds, cmd)

		m.groupList, cmd = m.groupList.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.state == StateDeleting {
		model, cmd := m.progressBar.Update(msg)
		m.progressBar = model.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab":
		if m.focus == FocusPolicy {
			m.focus = FocusGroups
		} else {
			m.focus = FocusPolicy
		}
		m.updateFocusState()
		return m, nil

	case "enter":
		if m.focus == FocusPolicy {
			if item, ok := m.policyList.SelectedItem().(policyItem); ok {
				m.policy = item.policy
			}
		}
		return m, nil

	case "d":
		m.dryRun = !m.dryRun
		return m, nil

	case "x":
		m.state = StateDeleting
		m.records = nil
		m.resolved = 0
		return m, m.resolveGroupCmd(0)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.focus == FocusPolicy {
		m.policyList, cmd = m.policyList.Update(msg)
	} else {
		m.groupList, cmd = m.groupList.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *model) updateFocusState() {
	m.policyList.KeyMap.CursorUp.SetEnabled(m.focus == FocusPolicy)
	m.policyList.KeyMap.CursorDown.SetEnabled(m.focus == FocusPolicy)
	m.groupList.KeyMap.CursorUp.SetEnabled(m.focus == FocusGroups)
	m.groupList.KeyMap.CursorDown.SetEnabled(m.focus == FocusGroups)
}

func (m *model) handleResize(msg tea.WindowSizeMsg) {
	width := msg.Width

	m.policyList.SetWidth(width - 4)
	m.groupList.SetWidth(width - 4)
	m.progressBar.Width = width - 10
}

func scanCmd(root string) tea.Cmd {
	return func() tea.Msg {
		finder := dedup.NewFinder()
		if cfg != nil && cfg.MinSize > 0 {
			finder.MinSize = cfg.MinSize
		}
		result, err := finder.Find(root)
		if err != nil {
			return errMsg(err)
		}
		return scanDoneMsg{result: result}
	}
}

// resolveGroupCmd resolves one group so the progress bar can advance
// group by group.
func (m *model) resolveGroupCmd(index int) tea.Cmd {
	g := m.groups[index]
	policy := m.policy
	dryRun := m.dryRun

	return func() tea.Msg {
		resolver := dedup.NewResolver()
		records, err := resolver.Resolve(
			map[string][]string{g.digest: g.paths},
			dedup.ResolveOptions{Policy: policy, DryRun: dryRun},
		)
		if err != nil {
			return errMsg(err)
		}
		return groupResolvedMsg{index: index, records: records}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (m *model) logFinalStats() {
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

	logger.Get().Info().Msgf("interactive review finished: %d groups, deleted=%d would_delete=%d failed=%d freed=%d bytes",
		len(m.groups), deleted, would, failed, freed)
}
