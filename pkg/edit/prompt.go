package edit

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user for a line of input.
//
// initial seeds the answer (the current weight when editing). ok is false when
// the user dismissed the prompt; an empty answer with ok true is treated the
// same way by the session.
type Prompter interface {
	Prompt(message, initial string) (answer string, ok bool)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(message, initial string) (string, bool)

// Prompt calls f.
func (f PrompterFunc) Prompt(message, initial string) (string, bool) { return f(message, initial) }

// StaticPrompter answers every prompt with the same value. It is used where the
// answer arrives together with the command, as in the HTTP API.
type StaticPrompter string

// Prompt returns the static answer; an empty answer counts as dismissed.
func (s StaticPrompter) Prompt(string, string) (string, bool) {
	return string(s), s != ""
}

// LinePrompter writes the prompt to Out and reads one line from In.
// An empty line keeps the initial value when one is given. EOF dismisses.
type LinePrompter struct {
	In  *bufio.Scanner
	Out io.Writer
}

// NewLinePrompter creates a LinePrompter reading from r and writing to w.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{In: bufio.NewScanner(r), Out: w}
}

// Prompt implements Prompter.
func (p *LinePrompter) Prompt(message, initial string) (string, bool) {
	if initial != "" {
		fmt.Fprintf(p.Out, "%s [%s]: ", message, initial)
	} else {
		fmt.Fprintf(p.Out, "%s: ", message)
	}
	if !p.In.Scan() {
		return "", false
	}
	answer := strings.TrimSpace(p.In.Text())
	if answer == "" {
		return initial, initial != ""
	}
	return answer, true
}
