package render

import (
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// markupRegexp matches ${NAME} colour tokens.
var markupRegexp = regexp.MustCompile(`\$\{([A-Z]+)\}`)

// ANSI palette indices for the supported token names.
var palette = map[string]string{
	"BLACK":   "0",
	"RED":     "1",
	"GREEN":   "2",
	"YELLOW":  "3",
	"BLUE":    "4",
	"MAGENTA": "5",
	"CYAN":    "6",
	"WHITE":   "7",
}

// Renderer turns ${COLOR}text${NORMAL} markup into coloured terminal text.
// With colour disabled every token is stripped and text passes through.
type Renderer struct {
	color  bool
	styles map[string]lipgloss.Style
}

// New builds a renderer for w. Colour is used only when enabled is true.
func New(w io.Writer, enabled bool) *Renderer {
	r := &Renderer{color: enabled, styles: map[string]lipgloss.Style{}}
	if !enabled {
		return r
	}
	lr := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI))
	lr.SetColorProfile(termenv.ANSI)
	for name, code := range palette {
		r.styles[name] = lr.NewStyle().Foreground(lipgloss.Color(code))
	}
	r.styles["BOLD"] = lr.NewStyle().Bold(true)
	return r
}

// ColorEnabled reports whether f is a terminal and NO_COLOR is unset.
func ColorEnabled(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Paint renders text in the named style. Unknown names and NORMAL return
// text unchanged.
func (r *Renderer) Paint(name, text string) string {
	if !r.color || text == "" {
		return text
	}
	style, ok := r.styles[name]
	if !ok {
		return text
	}
	return style.Render(text)
}

// Render interprets markup. A token applies until the next token;
// ${NORMAL} resets. Unknown tokens are kept verbatim.
func (r *Renderer) Render(markup string) string {
	var b strings.Builder
	current := "NORMAL"
	last := 0
	for _, m := range markupRegexp.FindAllStringSubmatchIndex(markup, -1) {
		name := markup[m[2]:m[3]]
		if _, known := palette[name]; !known && name != "NORMAL" && name != "BOLD" {
			continue
		}
		b.WriteString(r.Paint(current, markup[last:m[0]]))
		current = name
		last = m[1]
	}
	b.WriteString(r.Paint(current, markup[last:]))
	return b.String()
}
