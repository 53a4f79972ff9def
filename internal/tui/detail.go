package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/foxxcyber/kargolojik/internal/brand"
	"github.com/foxxcyber/kargolojik/internal/detail"
)

// detailLoadedMsg is sent when a Load or Retry returns
type detailLoadedMsg struct {
	id  string
	err error
}

// actionDoneMsg is sent after a call or maps action
type actionDoneMsg struct {
	err error
}

// BackMsg returns to the search screen
type BackMsg struct{}

// DetailModel is the branch detail screen
//
//nolint:containedctx // commands run against the program context
type DetailModel struct {
	ctx     context.Context
	loader  *detail.Loader
	id      string
	keys    KeyMap
	spinner spinner.Model

	state  detail.State
	status string
}

// NewDetail creates the detail screen for id
func NewDetail(ctx context.Context, loader *detail.Loader, id string) DetailModel {
	return DetailModel{
		ctx:     ctx,
		loader:  loader,
		id:      id,
		keys:    DefaultKeyMap(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		state:   detail.State{ID: id, Phase: detail.PhaseLoading},
	}
}

func (m DetailModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(m.loader.Load))
}

func (m DetailModel) load(fn func(context.Context, string) error) tea.Cmd {
	id := m.id
	return func() tea.Msg {
		return detailLoadedMsg{id: id, err: fn(m.ctx, id)}
	}
}

func (m DetailModel) action(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: fn(m.ctx)}
	}
}

func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case detailLoadedMsg:
		if msg.id != m.id || errors.Is(msg.err, detail.ErrSuperseded) {
			return m, nil
		}
		m.state = m.loader.State()
		return m, nil

	case actionDoneMsg:
		switch {
		case msg.err == nil:
			m.status = ""
		case errors.Is(msg.err, detail.ErrNoPhone):
			m.status = "Bu şubenin telefon numarası yok"
		case errors.Is(msg.err, detail.ErrNotReady):
			m.status = ""
		default:
			m.status = "Bağlantı açılamadı"
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ForceQuit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }
		case key.Matches(msg, m.keys.Call):
			return m, m.action(m.loader.Call)
		case key.Matches(msg, m.keys.Maps):
			return m, m.action(m.loader.OpenMaps)
		case key.Matches(msg, m.keys.Retry):
			if m.state.Phase != detail.PhaseError {
				return m, nil
			}
			m.state = detail.State{ID: m.id, Phase: detail.PhaseLoading}
			return m, m.load(func(ctx context.Context, _ string) error { return m.loader.Retry(ctx) })
		}
	}
	return m, nil
}

func (m DetailModel) View() string {
	var b strings.Builder

	switch m.state.Phase {
	case detail.PhaseError:
		b.WriteString(errorStyle.Render(m.state.ErrorMessage()) + "\n\n")
		b.WriteString(helpLine(m.keys.Retry, m.keys.Back))
		return b.String()
	case detail.PhaseReady:
	default:
		b.WriteString(m.spinner.View() + " Şube bilgisi yükleniyor...\n\n")
		b.WriteString(helpLine(m.keys.Back))
		return b.String()
	}

	br := m.state.Branch
	b.WriteString(titleStyle.Render(br.Name) + "\n")
	b.WriteString(badge(br.Company) + "\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label) + value + "\n")
	}
	field("Adres", br.Address)
	field("İlçe", br.District)
	field("Şehir", br.City)
	field("Telefon", br.Phone)

	if len(br.WorkingHours) > 0 {
		b.WriteString("\n" + titleStyle.Render("Çalışma Saatleri") + "\n")
		for _, h := range br.WorkingHours {
			b.WriteString(labelStyle.Render(brand.DayLabel(h.Day)) + h.Hours + "\n")
		}
	}

	b.WriteString("\n" + mutedStyle.Render(detail.MapsURL(*br)) + "\n")
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpLine(m.keys.Call, m.keys.Maps, m.keys.Back))
	return b.String()
}
