package prompt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// notTTY returns a regular file so term.ReadPassword fails and the
// line reader is used.
func notTTY(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestAsk(t *testing.T) {
	var out bytes.Buffer
	term := newTerminal(notTTY(t), strings.NewReader("  ann \nhunter2\n"), &out)

	got, err := term.Ask("username", false)
	if err != nil || got != "ann" {
		t.Fatalf("Ask username = %q, %v", got, err)
	}
	got, err = term.Ask("password", true)
	if err != nil || got != "hunter2" {
		t.Fatalf("Ask password = %q, %v", got, err)
	}
	if !strings.Contains(out.String(), "Please enter username: ") || !strings.Contains(out.String(), "Please enter password: ") {
		t.Fatalf("unexpected prompt output %q", out.String())
	}
}

func TestAskWithoutTrailingNewline(t *testing.T) {
	term := newTerminal(notTTY(t), strings.NewReader("ann"), &bytes.Buffer{})
	if got, err := term.Ask("username", false); err != nil || got != "ann" {
		t.Fatalf("Ask = %q, %v", got, err)
	}
}

func TestConfirm(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "\n", want: false},
		{input: "maybe\nn\n", want: false},
		{input: "", want: false},
	}
	for _, c := range cases {
		var out bytes.Buffer
		term := newTerminal(notTTY(t), strings.NewReader(c.input), &out)
		if got := term.Confirm("Destroy status 5?"); got != c.want {
			t.Fatalf("Confirm(%q) = %v want %v", c.input, got, c.want)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	if MaskSecret("short") != "***" {
		t.Fatalf("short secret not fully masked")
	}
	if got := MaskSecret("averylongsecret"); got != "av***et" {
		t.Fatalf("MaskSecret = %q", got)
	}
}
