package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/foxxcyber/kargolojik/internal/search"
)

const allCompanies = "Tümü"

// companiesMsg carries the company picker options
type companiesMsg struct {
	names []string
	err   error
}

// viewChangedMsg signals that the controller state moved
type viewChangedMsg struct{}

// commandDoneMsg is sent when a controller command returns
type commandDoneMsg struct {
	err error
}

// OpenDetailMsg asks the app to show one branch
type OpenDetailMsg struct {
	ID string
}

// SearchModel is the branch search screen
//
//nolint:containedctx // commands run against the program context
type SearchModel struct {
	ctx     context.Context
	dir     Directory
	ctrl    *search.Controller
	changes chan struct{}
	logger  *zap.Logger

	keys    KeyMap
	input   textinput.Model
	spinner spinner.Model

	// companies[0] is "" (all companies)
	companies  []string
	companyIdx int

	vm     search.ViewModel
	cursor int
	height int
}

// NewSearch creates the search screen. initialQuery seeds the text box.
func NewSearch(ctx context.Context, dir Directory, logger *zap.Logger, initialQuery string) SearchModel {
	ctrl := search.New(dir, search.WithInitialQuery(initialQuery), search.WithLogger(logger))

	changes := make(chan struct{}, 1)
	ctrl.Subscribe(func(search.ViewModel) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	input := textinput.New()
	input.Placeholder = "Şube adı, şehir veya adres ara..."
	input.Prompt = "🔍 "
	input.CharLimit = 100
	input.SetValue(initialQuery)
	input.Focus()

	return SearchModel{
		ctx:       ctx,
		dir:       dir,
		ctrl:      ctrl,
		changes:   changes,
		logger:    logger,
		keys:      DefaultKeyMap(),
		input:     input,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		companies: []string{""},
		vm:        ctrl.View(),
		height:    24,
	}
}

func (m SearchModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.fetchCompanies(),
		m.run(m.ctrl.Search),
		m.waitForChange(),
	)
}

func (m SearchModel) fetchCompanies() tea.Cmd {
	return func() tea.Msg {
		names, err := m.dir.ListCompanies(m.ctx)
		return companiesMsg{names: names, err: err}
	}
}

// run executes a blocking controller command off the UI loop
func (m SearchModel) run(command func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg{err: command(m.ctx)}
	}
}

func (m SearchModel) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return viewChangedMsg{}
	}
}

func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case companiesMsg:
		if msg.err != nil {
			m.logger.Warn("company list unavailable", zap.Error(msg.err))
			return m, nil
		}
		m.companies = append([]string{""}, msg.names...)
		m.sync()
		return m, nil

	case viewChangedMsg:
		m.sync()
		return m, m.waitForChange()

	case commandDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, search.ErrSuperseded) {
			m.logger.Debug("search command failed", zap.Error(msg.err))
		}
		m.sync()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// sync pulls the controller view and keeps the text box, cursor and
// picker in step with it
func (m *SearchModel) sync() {
	m.vm = m.ctrl.View()
	if m.input.Value() != m.vm.QueryText {
		m.input.SetValue(m.vm.QueryText)
	}
	if m.cursor >= len(m.vm.Items) {
		m.cursor = max(len(m.vm.Items)-1, 0)
	}
	for i, c := range m.companies {
		if c == m.vm.SelectedCompany {
			m.companyIdx = i
			break
		}
	}
}

func (m SearchModel) handleKey(msg tea.KeyMsg) (SearchModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(m.ctrl.Refresh)

	case key.Matches(msg, m.keys.ClearFilters):
		m.cursor = 0
		return m, m.run(m.ctrl.ClearFilters)

	case key.Matches(msg, m.keys.ClearQuery):
		m.cursor = 0
		return m, m.run(m.ctrl.ClearQuery)

	case key.Matches(msg, m.keys.NextCompany):
		m.companyIdx = (m.companyIdx + 1) % len(m.companies)
		company := m.companies[m.companyIdx]
		m.cursor = 0
		return m, m.run(func(ctx context.Context) error {
			return m.ctrl.SetCompanyFilter(ctx, company)
		})
	}

	if m.input.Focused() {
		return m.handleInputKey(msg)
	}
	return m.handleListKey(msg)
}

func (m SearchModel) handleInputKey(msg tea.KeyMsg) (SearchModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.ctrl.SetQueryText(strings.TrimSpace(m.input.Value()))
		m.input.Blur()
		m.cursor = 0
		return m, m.run(m.ctrl.Search)

	case msg.Type == tea.KeyDown, key.Matches(msg, m.keys.Blur):
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetQueryText(m.input.Value())
	return m, cmd
}

func (m SearchModel) handleListKey(msg tea.KeyMsg) (SearchModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		} else {
			return m, m.input.Focus()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.vm.Items)-1 {
			m.cursor++
		}
		if m.cursor >= len(m.vm.Items)-1 && m.vm.HasMore {
			return m, m.run(m.ctrl.LoadNextPage)
		}

	case key.Matches(msg, m.keys.Submit):
		if m.cursor < len(m.vm.Items) {
			id := m.vm.Items[m.cursor].ID
			return m, func() tea.Msg { return OpenDetailMsg{ID: id} }
		}
	}
	return m, nil
}

func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Kargolojik · Şube Ara"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	company := m.vm.SelectedCompany
	if company == "" {
		company = allCompanies
	}
	b.WriteString(mutedStyle.Render("Firma: ") + company)
	b.WriteString("\n\n")

	switch {
	case m.vm.IsInitialLoading:
		b.WriteString(m.spinner.View() + " Şubeler yükleniyor...\n")
	case m.vm.IsRefreshing:
		b.WriteString(m.spinner.View() + " Yenileniyor...\n")
	case m.vm.ErrorMessage != "" && len(m.vm.Items) == 0:
		b.WriteString(errorStyle.Render(m.vm.ErrorMessage) + "\n")
		b.WriteString(helpStyle.Render("ctrl+r ile tekrar deneyin") + "\n")
	case m.vm.IsEmpty:
		b.WriteString(titleStyle.Render("Şube Bulunamadı") + "\n")
		b.WriteString(mutedStyle.Render("Arama kriterlerinize uygun şube bulunamadı.") + "\n")
	default:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d şube bulundu", m.vm.Total)) + "\n")
		b.WriteString(m.rows())
		switch {
		case m.vm.IsLoadingMore:
			b.WriteString(m.spinner.View() + " Daha fazla yükleniyor...\n")
		case m.vm.ErrorMessage != "":
			b.WriteString(errorStyle.Render(m.vm.ErrorMessage) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpLine(m.keys.Submit, m.keys.NextCompany, m.keys.Refresh, m.keys.ClearFilters, m.keys.ClearQuery, m.keys.Quit))
	return b.String()
}

// rows renders the window of results around the cursor
func (m SearchModel) rows() string {
	visible := max((m.height-12)/2, 3)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.vm.Items))

	var b strings.Builder
	for i := start; i < end; i++ {
		item := m.vm.Items[i]
		marker := "  "
		name := item.Name
		if i == m.cursor && !m.input.Focused() {
			marker = "> "
			name = selectedStyle.Render(name)
		}

		place := item.City
		if item.District != "" {
			place = item.District + ", " + item.City
		}

		b.WriteString(marker + badge(item.Company) + " " + name + "\n")
		b.WriteString("    " + mutedStyle.Render(place) + "\n")
	}
	return b.String()
}
