package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the key bindings of both screens
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Submit       key.Binding
	Focus        key.Binding
	Blur         key.Binding
	NextCompany  key.Binding
	Refresh      key.Binding
	ClearFilters key.Binding
	ClearQuery   key.Binding
	Call         key.Binding
	Maps         key.Binding
	Retry        key.Binding
	Back         key.Binding
	Quit         key.Binding
	ForceQuit    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "yukarı"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "aşağı"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ara / aç"),
		),
		Focus: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "arama"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "listeye dön"),
		),
		NextCompany: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "firma"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "yenile"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "filtreleri temizle"),
		),
		ClearQuery: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "aramayı temizle"),
		),
		Call: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "ara"),
		),
		Maps: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "harita"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "tekrar dene"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "geri"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "çıkış"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(joinDot(parts))
}
