package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/manifoldco/promptui"
)

// PromptUI prompts on the terminal with promptui.
type PromptUI struct{}

// Choose runs a promptui selector. The terminal is in raw mode while it
// runs, so Ctrl-C reaches promptui as a key press instead of a signal.
func (PromptUI) Choose(ctx context.Context, label string, items []string) (int, error) {
	if ctx.Err() != nil {
		return 0, ErrCancelled
	}
	p := promptui.Select{
		Label: label,
		Items: items,
		Size:  len(items),
	}
	idx, _, err := p.Run()
	if err != nil {
		return 0, promptErr(err)
	}
	return idx, nil
}

func (PromptUI) Ask(ctx context.Context, label string) (string, error) {
	if ctx.Err() != nil {
		return "", ErrCancelled
	}
	p := promptui.Prompt{Label: label}
	s, err := p.Run()
	if err != nil {
		return "", promptErr(err)
	}
	return s, nil
}

func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return ErrCancelled
	}
	return err
}

const ruleWidth = 40

// Lines prompts with a numbered menu, reading one line per answer. It
// works without a terminal. Reads happen on a background goroutine so a
// cancelled context ends a prompt without waiting for Enter.
type Lines struct {
	Title string
	in    *bufio.Reader
	out   io.Writer

	start sync.Once
	lines chan lineResult
}

type lineResult struct {
	text string
	err  error
}

// NewLines returns a line prompter reading from r and writing prompts to w.
func NewLines(r io.Reader, w io.Writer) *Lines {
	return &Lines{
		Title: "MORSE CODE CONVERTER",
		in:    bufio.NewReader(r),
		out:   w,
		lines: make(chan lineResult),
	}
}

func (l *Lines) Choose(ctx context.Context, label string, items []string) (int, error) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(l.out, "\n%s\n       %s\n%s\n", rule, l.Title, rule)
	for i, item := range items {
		fmt.Fprintf(l.out, "%d. %s\n", i+1, item)
	}
	fmt.Fprintln(l.out, rule)

	fmt.Fprintf(l.out, "\n%s: ", label)
	line, err := l.readLine(ctx)
	if err != nil {
		return 0, err
	}

	// Only the plain numbers are accepted; "+1" or "01" are not.
	line = strings.TrimSpace(line)
	for i := range items {
		if line == strconv.Itoa(i+1) {
			return i, nil
		}
	}
	return 0, ErrInvalidChoice
}

func (l *Lines) Ask(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(l.out, "%s: ", label)
	return l.readLine(ctx)
}

func (l *Lines) readLine(ctx context.Context) (string, error) {
	l.start.Do(func() { go l.readLoop() })

	select {
	case <-ctx.Done():
		return "", ErrCancelled
	case res, ok := <-l.lines:
		if !ok {
			return "", ErrCancelled
		}
		return res.text, res.err
	}
}

// readLoop feeds lines to readLine until the reader fails, then closes
// the channel after delivering the error.
func (l *Lines) readLoop() {
	defer close(l.lines)
	for {
		line, err := l.in.ReadString('\n')
		switch {
		case err == nil:
			line = strings.TrimSuffix(line, "\n")
			l.lines <- lineResult{text: strings.TrimSuffix(line, "\r")}
			continue
		case errors.Is(err, io.EOF) && line != "":
			l.lines <- lineResult{text: line}
			l.lines <- lineResult{err: ErrCancelled}
		case errors.Is(err, io.EOF):
			l.lines <- lineResult{err: ErrCancelled}
		default:
			l.lines <- lineResult{err: err}
		}
		return
	}
}
