package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal asks questions on an interactive terminal. Secret answers are
// read without echo when stdin is a tty.
type Terminal struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

func NewTerminal() *Terminal {
	return newTerminal(os.Stdin, os.Stdin, os.Stderr)
}

func newTerminal(in *os.File, r io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out, reader: bufio.NewReader(r)}
}

// Ask prompts with "Please enter <label>: " and returns the trimmed answer.
func (t *Terminal) Ask(label string, secret bool) (string, error) {
	fmt.Fprintf(t.out, "Please enter %s: ", label)

	if secret {
		// Use term.ReadPassword for masked input
		b, err := term.ReadPassword(int(t.in.Fd()))
		if err == nil {
			// Print newline after password input
			fmt.Fprintln(t.out)
			return strings.TrimSpace(string(b)), nil
		}
		// Fallback to regular input if term.ReadPassword fails
	}

	line, err := t.reader.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm prompts for a yes/no confirmation
func (t *Terminal) Confirm(message string) bool {
	for {
		fmt.Fprintf(t.out, "%s [y/N]: ", message)
		line, err := t.reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}

		response := strings.TrimSpace(strings.ToLower(line))
		switch response {
		case "y", "yes":
			return true
		case "n", "no", "":
			return false
		default:
			fmt.Fprintln(t.out, "Please enter 'y' or 'n'.")
		}
	}
}

// MaskSecret masks a secret for display
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:2] + "***" + secret[len(secret)-2:]
}
