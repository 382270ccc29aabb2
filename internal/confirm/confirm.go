// Package confirm is the operator confirmation port. Business logic asks a
// Confirmer yes/no questions; the terminal implementation blocks on stdin
// until an answer arrives or the context is cancelled, the scripted one
// replays canned answers in tests.
package confirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrUserAbort is returned when the operator answers "n" or anything other
// than "y" at a confirmation. It terminates the whole run.
var ErrUserAbort = errors.New("aborted by operator")

// Confirmer asks the operator a yes/no question. It returns true only for an
// explicit yes; a no, an unrecognized answer, a read failure or a cancelled
// ctx is false.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Terminal reads answers line by line from in and writes prompts to out.
// A single background reader feeds lines to Confirm, so an interrupted
// prompt does not leave a second reader racing for the next answer.
type Terminal struct {
	in  io.Reader
	out io.Writer

	once  sync.Once
	lines chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewTerminal returns a Terminal reading from in and prompting on out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

func (t *Terminal) start() {
	t.lines = make(chan readResult)
	go func() {
		defer close(t.lines)
		r := bufio.NewReader(t.in)
		for {
			line, err := r.ReadString('\n')
			t.lines <- readResult{line: line, err: err}
			if err != nil {
				return
			}
		}
	}()
}

// Confirm prints prompt followed by the accepted answers and waits for one
// line or for ctx to be cancelled. Answers are trimmed and case-insensitive.
func (t *Terminal) Confirm(ctx context.Context, prompt string) bool {
	fmt.Fprintf(t.out, "%s [y/n]: ", prompt)
	t.once.Do(t.start)

	var res readResult
	select {
	case <-ctx.Done():
		fmt.Fprintln(t.out)
		return false
	case r, ok := <-t.lines:
		if !ok || (r.err != nil && r.line == "") {
			fmt.Fprintln(t.out)
			return false
		}
		res = r
	}

	switch strings.ToLower(strings.TrimSpace(res.line)) {
	case "y":
		return true
	case "n":
		return false
	default:
		fmt.Fprintln(t.out, "Invalid response.")
		return false
	}
}

// Scripted answers prompts from a fixed list and records what was asked.
// Once the answers run out every further prompt is rejected.
type Scripted struct {
	Answers []bool
	Prompts []string
}

// Confirm records prompt and returns the next scripted answer.
func (s *Scripted) Confirm(_ context.Context, prompt string) bool {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.Prompts) > len(s.Answers) {
		return false
	}
	return s.Answers[len(s.Prompts)-1]
}

// Require asks c and converts a negative answer into ErrUserAbort wrapped
// with what was being confirmed. A ctx cancelled before or during the
// prompt wins over any answer and its error is returned as is.
func Require(ctx context.Context, c Confirmer, what, prompt string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ok := c.Confirm(ctx, prompt)
	if err := ctx.Err(); err != nil {
		return err
	}
	if ok {
		return nil
	}
	return fmt.Errorf("%s: %w", what, ErrUserAbort)
}
