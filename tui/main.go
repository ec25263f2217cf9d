package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/file-organizer/pkg/logger"
)

// Config carries the scan parameters into the interactive session.
type Config struct {
	Root    string
	MinSize int64
}

var cfg *Config

// Run starts the interactive duplicate review.
func Run(config *Config) error {
	cfg = config

	logger.Get().Info().Msg("starting interactive review")

	m := initialModel(config)
	p := tea.NewProgram(&m, tea.WithAltScreen())

	_, err := p.Run()
	if err != nil {
		logger.Get().Error().Err(err).Msg("TUI error")
	}

	return err
}
