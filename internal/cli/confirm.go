// Package cli holds the terminal counterparts of the window: prompts,
// progress and the final report.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// AutoConfirmer answers every question with a fixed value
type AutoConfirmer bool

func (a AutoConfirmer) Confirm(context.Context, string, string) bool {
	return bool(a)
}

// PromptConfirmer asks yes/no questions on a terminal. Anything other than
// y or yes counts as No, matching the dialog default.
type PromptConfirmer struct {
	in     *bufio.Reader
	out    io.Writer
	before func()

	once  sync.Once
	lines chan string
}

// NewPromptConfirmer reads answers from in and writes prompts to out.
// before runs ahead of each prompt, e.g. to clear a progress bar.
func NewPromptConfirmer(in io.Reader, out io.Writer, before func()) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out, before: before}
}

// readLines feeds input lines to a channel so a pending read can be
// abandoned on cancellation without losing the next answer.
func (p *PromptConfirmer) readLines() {
	p.lines = make(chan string)
	go func() {
		defer close(p.lines)
		for {
			line, err := p.in.ReadString('\n')
			if line != "" {
				p.lines <- line
			}
			if err != nil {
				return
			}
		}
	}()
}

func (p *PromptConfirmer) Confirm(ctx context.Context, title, message string) bool {
	if ctx.Err() != nil {
		return false
	}
	p.once.Do(p.readLines)
	if p.before != nil {
		p.before()
	}
	fmt.Fprintf(p.out, "%s: %s [y/N] ", title, message)

	select {
	case line, ok := <-p.lines:
		if !ok {
			fmt.Fprintln(p.out)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false
	}
}
