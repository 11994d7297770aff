package style

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row - строка ключ/значение.
type Row struct {
	Key   string
	Value string
	Tone  Tone
}

// Section - именованная группа строк.
type Section struct {
	Title string
	Rows  []Row
}

// Report - отчёт одной команды CLI.
type Report struct {
	Title    string
	Sections []Section
	// Status выводится последней строкой, если задан.
	Status     string
	StatusTone Tone
}

// NewReport создаёт отчёт с заголовком.
func NewReport(title string) *Report {
	return &Report{Title: title}
}

// Section добавляет секцию и возвращает её для заполнения.
func (r *Report) Section(title string) *Section {
	r.Sections = append(r.Sections, Section{Title: title})
	return &r.Sections[len(r.Sections)-1]
}

// Add добавляет строку обычного тона.
func (s *Section) Add(key string, value interface{}) *Section {
	return s.AddTone(key, value, ToneDefault)
}

// AddTone добавляет строку с заданным тоном.
func (s *Section) AddTone(key string, value interface{}, tone Tone) *Section {
	s.Rows = append(s.Rows, Row{Key: key, Value: fmt.Sprint(value), Tone: tone})
	return s
}

// SetStatus задаёт итоговую строку.
func (r *Report) SetStatus(status string, tone Tone) {
	r.Status = status
	r.StatusTone = tone
}

// Render форматирует отчёт.
func (r *Report) Render(st Styles) string {
	keyWidth := 0
	for _, sec := range r.Sections {
		for _, row := range sec.Rows {
			if w := lipgloss.Width(row.Key); w > keyWidth {
				keyWidth = w
			}
		}
	}

	var blocks []string
	for _, sec := range r.Sections {
		lines := []string{st.SectionTitle.Render(sec.Title)}
		for _, row := range sec.Rows {
			key := st.Key.Render(row.Key + ":" + strings.Repeat(" ", keyWidth-lipgloss.Width(row.Key)))
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, key, " ", st.Value(row.Tone).Render(row.Value)))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	body := strings.Join(blocks, "\n\n")
	if r.Status != "" {
		body += "\n\n" + st.Value(r.StatusTone).Render(r.Status)
	}
	return st.Title.Render(r.Title) + "\n" + st.Container.Render(body) + "\n"
}

// String форматирует отчёт стилями по умолчанию.
func (r *Report) String() string {
	return r.Render(DefaultStyles)
}

// Print выводит отчёт в w.
func (r *Report) Print(w io.Writer) error {
	_, err := io.WriteString(w, r.String())
	return err
}

// Table форматирует таблицу с выровненными колонками.
func Table(st Styles, headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	pad := func(cells []string) string {
		out := make([]string, len(widths))
		for i := range widths {
			var c string
			if i < len(cells) {
				c = cells[i]
			}
			out[i] = c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
		}
		return strings.Join(out, "  ")
	}

	lines := []string{st.SectionTitle.Render(pad(headers))}
	for _, row := range rows {
		lines = append(lines, st.Value(ToneDefault).Render(pad(row)))
	}
	return strings.Join(lines, "\n") + "\n"
}
