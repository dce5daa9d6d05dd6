package render

import (
	"encoding/json"
	"fmt"
	"io"

	"clitter/internal/models"
)

// DefaultDateFormat is the layout used for status timestamps when none is
// configured.
const DefaultDateFormat = "2006.01.02 15:04:05"

// Printer writes command output. Progress, data and error lines are
// suppressed in quiet mode; timelines and unexpected replies never are.
type Printer struct {
	Out        io.Writer
	Renderer   *Renderer
	Quiet      bool
	ShowIDs    bool
	DateFormat string
}

func (p *Printer) line(text string) {
	fmt.Fprintln(p.Out, text)
}

func (p *Printer) print(text string) {
	if !p.Quiet {
		p.line(text)
	}
}

// Progress reports what the command is doing.
func (p *Printer) Progress(format string, args ...any) {
	p.print(p.Renderer.Paint("GREEN", fmt.Sprintf(format, args...)))
}

// Data reports a result.
func (p *Printer) Data(format string, args ...any) {
	p.print(p.Renderer.Paint("YELLOW", fmt.Sprintf(format, args...)))
}

// Error reports a recoverable failure.
func (p *Printer) Error(format string, args ...any) {
	p.print(p.Renderer.Paint("RED", fmt.Sprintf(format, args...)))
}

// Separator prints a ====caption==== rule.
func (p *Printer) Separator(caption string) {
	p.print(p.Renderer.Render("${YELLOW}====${NORMAL}") + caption + p.Renderer.Render("${YELLOW}====${NORMAL}"))
}

// Timeline prints one line per status, newest first. withNames prefixes
// each text with the author's name.
func (p *Printer) Timeline(timeline models.Timeline, withNames bool) {
	for _, s := range timeline {
		left := p.FormatDate(s.CreatedAt)
		if p.ShowIDs {
			left = fmt.Sprintf("%d %s", s.ID, left)
		}
		right := s.Text
		if withNames {
			right = p.Renderer.Paint("CYAN", s.User.DisplayName()+":") + " " + s.Text
		}
		p.line(p.Renderer.Paint("YELLOW", left) + ": " + right)
	}
}

// FormatDate renders a server timestamp with the configured layout. Values
// that do not parse are returned verbatim.
func (p *Printer) FormatDate(createdAt string) string {
	s := models.StatusEntry{CreatedAt: createdAt}
	t, err := s.CreatedTime()
	if err != nil {
		return createdAt
	}
	layout := p.DateFormat
	if layout == "" {
		layout = DefaultDateFormat
	}
	return t.Format(layout)
}

// UnexpectedReply dumps a payload that did not have the expected shape.
func (p *Printer) UnexpectedReply(raw any) {
	p.line(p.Renderer.Paint("RED", "Unexpected json reply:"))
	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		p.line(fmt.Sprintf("%#v", raw))
		return
	}
	p.line(string(out))
}
