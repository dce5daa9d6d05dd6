package render

import (
	"bytes"
	"strings"
	"testing"

	"clitter/internal/models"
)

func TestRenderStripsMarkupWithoutColor(t *testing.T) {
	r := New(&bytes.Buffer{}, false)
	cases := []struct {
		in   string
		want string
	}{
		{in: "${YELLOW}====${NORMAL}new entries${YELLOW}====${NORMAL}", want: "====new entries===="},
		{in: "plain", want: "plain"},
		{in: "${UNKNOWN}kept", want: "${UNKNOWN}kept"},
		{in: "", want: ""},
	}
	for _, c := range cases {
		if got := r.Render(c.in); got != c.want {
			t.Fatalf("Render(%q) = %q want %q", c.in, got, c.want)
		}
	}
}

func TestRenderColorsSegments(t *testing.T) {
	r := New(&bytes.Buffer{}, true)
	out := r.Render("${RED}boom${NORMAL} ok")
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected ANSI sequences, got %q", out)
	}
	if !strings.Contains(out, "boom") || !strings.HasSuffix(out, " ok") {
		t.Fatalf("text lost in rendering: %q", out)
	}
}

func newPrinter(buf *bytes.Buffer) *Printer {
	return &Printer{Out: buf, Renderer: New(buf, false)}
}

func TestPrinterTimeline(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)
	p.ShowIDs = true

	p.Timeline(models.Timeline{
		{ID: 7, CreatedAt: "Tue Mar 27 22:55:48 +0000 2007", Text: "hello", User: models.User{Name: "Ann"}},
		{ID: 6, CreatedAt: "yesterday", Text: "raw date", User: models.User{ScreenName: "bob"}},
	}, true)

	want := "7 2007.03.27 22:55:48: Ann: hello\n6 yesterday: bob: raw date\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestPrinterCustomDateFormat(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)
	p.DateFormat = "2006-01-02"
	if got := p.FormatDate("Tue Mar 27 22:55:48 +0000 2007"); got != "2007-03-27" {
		t.Fatalf("FormatDate = %q", got)
	}
}

func TestPrinterQuiet(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)
	p.Quiet = true

	p.Progress("Fetching %s", "x")
	p.Data("Hits: %d/%d", 1, 2)
	p.Error("No updates")
	p.Separator("new entries")
	if buf.Len() != 0 {
		t.Fatalf("quiet printer wrote %q", buf.String())
	}

	p.Timeline(models.Timeline{{ID: 1, CreatedAt: "x", Text: "still shown"}}, false)
	if !strings.Contains(buf.String(), "still shown") {
		t.Fatalf("timeline suppressed in quiet mode")
	}
}

func TestPrinterUnexpectedReply(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)
	p.UnexpectedReply(map[string]any{"error": "nope"})
	out := buf.String()
	if !strings.HasPrefix(out, "Unexpected json reply:\n") || !strings.Contains(out, `"error": "nope"`) {
		t.Fatalf("unexpected output %q", out)
	}
}
