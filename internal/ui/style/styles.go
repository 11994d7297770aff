package style

import (
	"github.com/charmbracelet/lipgloss"
)

var palette = DefaultPalette()

// Tone задаёт цвет значения в отчёте.
type Tone int

const (
	ToneDefault Tone = iota
	ToneMuted
	ToneAddress
	ToneSuccess
	ToneWarning
	ToneError
)

// Styles - набор стилей отчёта команды.
type Styles struct {
	Title        lipgloss.Style
	SectionTitle lipgloss.Style
	Key          lipgloss.Style
	Container    lipgloss.Style

	values map[Tone]lipgloss.Style
}

// NewStyles creates report styles with the given palette
func NewStyles(p Palette) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			MarginBottom(1),

		SectionTitle: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Bold(true),

		Key: lipgloss.NewStyle().
			Foreground(p.TextSecondary).
			PaddingLeft(2),

		Container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.TextMuted).
			Padding(0, 1),

		values: map[Tone]lipgloss.Style{
			ToneDefault: lipgloss.NewStyle().Foreground(p.Text),
			ToneMuted:   lipgloss.NewStyle().Foreground(p.TextMuted),
			ToneAddress: lipgloss.NewStyle().Foreground(p.Info),
			ToneSuccess: lipgloss.NewStyle().Foreground(p.Success).Bold(true),
			ToneWarning: lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
			ToneError:   lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		},
	}
}

// Value возвращает стиль значения для тона.
func (s Styles) Value(t Tone) lipgloss.Style {
	if st, ok := s.values[t]; ok {
		return st
	}
	return s.values[ToneDefault]
}

// DefaultStyles использует палитру по умолчанию.
var DefaultStyles = NewStyles(palette)
