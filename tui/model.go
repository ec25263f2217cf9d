package tui

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/file-organizer/internal"
)

type State int

const (
	StateScanning State = iota
	StateReview
	StateDeleting
	StateComplete
)

type Focus int

const (
	FocusPolicy Focus = iota
	FocusGroups
)

// group is one duplicate set in digest order, flattened for the list view.
type group struct {
	digest string
	paths  []string
}

type model struct {
	state  State
	focus  Focus
	root   string
	dryRun bool

	result  *internal.ScanResult
	groups  []group
	records []internal.DeletionRecord

	policy     internal.KeepPolicy
	policyList list.Model
	groupList  list.Model

	progressBar progress.Model
	spinner     spinner.Model
	resolved    int
	err         error
}

func initialModel(config *Config) model {
	policyList := list.New([]list.Item{
		policyItem{policy: internal.KeepFirst, desc: "keep the first copy found"},
		policyItem{policy: internal.KeepLast, desc: "keep the last copy found"},
		policyItem{policy: internal.KeepShortestPath, desc: "keep the copy with the shortest path"},
		policyItem{policy: internal.KeepLongestPath, desc: "keep the copy with the longest path"},
	}, list.NewDefaultDelegate(), 0, 8)

	policyList.Title = "Keep policy"
	policyList.SetShowStatusBar(false)
	policyList.SetFilteringEnabled(false)
	policyList.Styles.Title = titleStyle

	groupList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 12)
	groupList.Title = "Duplicate groups"
	groupList.SetShowStatusBar(false)
	groupList.SetFilteringEnabled(false)
	groupList.Styles.Title = titleStyle

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.PercentageStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Width(4)

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		state:       StateScanning,
		focus:       FocusPolicy,
		root:        config.Root,
		dryRun:      true,
		policy:      internal.KeepFirst,
		policyList:  policyList,
		groupList:   groupList,
		progressBar: progressBar,
		spinner:     s,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(spinnerTick(), scanCmd(m.root))
}

// setResult fills the review lists from the scan, largest groups first.
func (m *model) setResult(result *internal.ScanResult) {
	m.result = result
	m.groups = m.groups[:0]

	for digest, paths := range result.Groups {
		m.groups = append(m.groups, group{digest: digest, paths: paths})
	}
	sort.Slice(m.groups, func(i, j int) bool {
		if len(m.groups[i].paths) != len(m.groups[j].paths) {
			return len(m.groups[i].paths) > len(m.groups[j].paths)
		}
		return m.groups[i].digest < m.groups[j].digest
	})

	items := make([]list.Item, len(m.groups))
	for i, g := range m.groups {
		items[i] = groupItem{
			digest: g.digest,
			count:  len(g.paths),
			first:  g.paths[0],
		}
	}
	m.groupList.SetItems(items)
}

type policyItem struct {
	policy internal.KeepPolicy
	desc   string
}

func (p policyItem) Title() string       { return string(p.policy) }
func (p policyItem) Description() string { return p.desc }
func (p policyItem) FilterValue() string { return string(p.policy) }

type groupItem struct {
	digest string
	count  int
	first  string
}

func (g groupItem) Title() string {
	return fmt.Sprintf("%s…  %d copies", g.digest[:12], g.count)
}
func (g groupItem) Description() string { return g.first }
func (g groupItem) FilterValue() string { return g.digest }
