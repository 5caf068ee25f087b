// Package menu implements the interactive encode/decode/chart loop.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/birdayz/morse/pkg/chart"
	"github.com/birdayz/morse/pkg/morse"
)

var (
	// ErrCancelled is returned by a Prompter when the user interrupts
	// input (Ctrl-C or end of input).
	ErrCancelled = errors.New("cancelled by user")
	// ErrInvalidChoice is returned by Choose for input that is not one of
	// the offered items.
	ErrInvalidChoice = errors.New("invalid choice")
)

// Prompter asks the user for a menu choice or a line of text. Both
// methods return ErrCancelled once ctx is done.
type Prompter interface {
	// Choose returns the zero-based index of the chosen item.
	Choose(ctx context.Context, label string, items []string) (int, error)
	// Ask returns the entered text unmodified.
	Ask(ctx context.Context, label string) (string, error)
}

const (
	choiceEncode = iota
	choiceDecode
	choiceChart
	choiceExit
)

// Items are the menu entries, in choice order.
var Items = []string{
	choiceEncode: "Encode text to Morse code",
	choiceDecode: "Decode Morse code to text",
	choiceChart:  "View Morse code chart",
	choiceExit:   "Exit",
}

const (
	welcome      = "Welcome to Morse Code Converter!\nCharacters not in the dictionary will be replaced with '?'\n"
	choiceLabel  = "Enter your choice (1-4)"
	encodeLabel  = "Enter text to encode to Morse code"
	decodeLabel  = "Enter Morse code to decode (separate characters with spaces)"
	invalidMsg   = "Invalid choice! Please enter 1, 2, 3, or 4.\n"
	goodbyeMsg   = "Thank you for using Morse Code Converter! Goodbye!\n"
	cancelledMsg = "\n\nOperation cancelled by user. Exiting...\n"
)

// Menu runs the interactive loop.
type Menu struct {
	Prompter Prompter
	Out      io.Writer
	Log      *zap.Logger
}

// Run loops until the user exits, cancels, or ctx is done. Cancellation
// is not an error.
func (m *Menu) Run(ctx context.Context) error {
	log := m.Log
	if log == nil {
		log = zap.NewNop()
	}

	fmt.Fprint(m.Out, welcome)
	for {
		if ctx.Err() != nil {
			fmt.Fprint(m.Out, cancelledMsg)
			return nil
		}

		choice, err := m.Prompter.Choose(ctx, choiceLabel, Items)
		switch {
		case errors.Is(err, ErrCancelled):
			fmt.Fprint(m.Out, cancelledMsg)
			return nil
		case errors.Is(err, ErrInvalidChoice):
			fmt.Fprint(m.Out, invalidMsg)
			continue
		case err != nil:
			return fmt.Errorf("read choice: %w", err)
		}
		log.Debug("menu choice", zap.Int("choice", choice+1))

		done, err := m.handle(ctx, choice)
		if errors.Is(err, ErrCancelled) {
			fmt.Fprint(m.Out, cancelledMsg)
			return nil
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (m *Menu) handle(ctx context.Context, choice int) (done bool, err error) {
	switch choice {
	case choiceEncode:
		text, err := m.Prompter.Ask(ctx, encodeLabel)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(m.Out, "\nMorse code: %s\n", morse.Encode(text))
	case choiceDecode:
		code, err := m.Prompter.Ask(ctx, decodeLabel)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(m.Out, "\nDecoded text: %s\n", morse.Decode(code))
	case choiceChart:
		if err := chart.Render(m.Out, morse.Symbols()); err != nil {
			return false, fmt.Errorf("render chart: %w", err)
		}
	case choiceExit:
		fmt.Fprint(m.Out, goodbyeMsg)
		return true, nil
	default:
		fmt.Fprint(m.Out, invalidMsg)
	}
	return false, nil
}
