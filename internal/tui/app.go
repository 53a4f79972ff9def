// Package tui is the terminal front end of the branch directory.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/foxxcyber/kargolojik/internal/detail"
	"github.com/foxxcyber/kargolojik/internal/search"
)

// Directory is what the screens need from the listing API
type Directory interface {
	search.Lister
	detail.Fetcher
	ListCompanies(ctx context.Context) ([]string, error)
}

type screen int

const (
	screenSearch screen = iota
	screenDetail
)

// Model switches between the search and detail screens
//
//nolint:containedctx // commands run against the program context
type Model struct {
	ctx    context.Context
	loader *detail.Loader
	screen screen
	search SearchModel
	detail DetailModel
}

// New creates the application model
func New(ctx context.Context, dir Directory, opener detail.URLOpener, logger *zap.Logger, initialQuery string) Model {
	return Model{
		ctx:    ctx,
		loader: detail.NewLoader(dir, opener, detail.WithLogger(logger)),
		search: NewSearch(ctx, dir, logger, initialQuery),
	}
}

func (m Model) Init() tea.Cmd {
	return m.search.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case OpenDetailMsg:
		m.detail = NewDetail(m.ctx, m.loader, msg.ID)
		m.screen = screenDetail
		return m, m.detail.Init()

	case BackMsg:
		m.screen = screenSearch
		return m, nil

	case tea.WindowSizeMsg:
		m.search, cmd = m.search.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		// Each spinner ignores ticks carrying another spinner's id
		var detailCmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.screen == screenDetail {
			m.detail, detailCmd = m.detail.Update(msg)
		}
		return m, tea.Batch(cmd, detailCmd)

	case companiesMsg, viewChangedMsg, commandDoneMsg:
		m.search, cmd = m.search.Update(msg)
		return m, cmd

	case detailLoadedMsg, actionDoneMsg:
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	if m.screen == screenDetail {
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.screen == screenDetail {
		return m.detail.View()
	}
	return m.search.View()
}
