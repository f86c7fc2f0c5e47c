package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// palette раскрашивает вывод оболочки. При выключенном цвете текст не меняется.
type palette struct {
	enabled bool
	ok      lipgloss.Style
	err     lipgloss.Style
	notice  lipgloss.Style
	title   lipgloss.Style
}

func newPalette(out io.Writer, enabled bool) palette {
	r := lipgloss.NewRenderer(out)
	return palette{
		enabled: enabled,
		ok:      r.NewStyle().Foreground(lipgloss.Color("10")),
		err:     r.NewStyle().Foreground(lipgloss.Color("9")),
		notice:  r.NewStyle().Faint(true),
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	}
}

// render применяет стиль построчно, чтобы lipgloss не выравнивал строки по ширине.
func (p palette) render(s lipgloss.Style, text string) string {
	if !p.enabled || text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = s.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (p palette) Result(text string, ok bool) string {
	if ok {
		return p.render(p.ok, text)
	}
	return p.render(p.err, text)
}

func (p palette) Error(text string) string  { return p.render(p.err, text) }
func (p palette) Notice(text string) string { return p.render(p.notice, text) }
func (p palette) Title(text string) string  { return p.render(p.title, text) }
