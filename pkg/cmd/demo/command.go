package demo

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/birdayz/morse/pkg/app"
	"github.com/birdayz/morse/pkg/morse"
)

// DefaultPhrases are used when no phrases are given.
var DefaultPhrases = []string{
	"HELLO WORLD",
	"SOS",
	"123",
	"GOPHERS ARE AWESOME!",
	"TEST@EMAIL.COM",
}

// NewCommand returns the "morse demo" command.
func NewCommand(a *app.App) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "demo [PHRASE...]",
		Short: "Encode and decode sample phrases",
		Long:  "Encode and decode sample phrases, printing each step. With --check, fails if a phrase does not survive the round trip.",
		Example: `  morse demo
  morse demo "cq cq de pa3xyz" --check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			phrases := args
			if len(phrases) == 0 {
				phrases = DefaultPhrases
			}

			rule := strings.Repeat("-", 30)
			fmt.Fprintln(a.OutWriter, "Testing Morse Code Converter:")
			fmt.Fprintln(a.OutWriter, rule)

			var failed []string
			for _, p := range phrases {
				encoded := morse.Encode(p)
				decoded := morse.Decode(encoded)
				fmt.Fprintf(a.OutWriter, "Original: %s\nEncoded: %s\nDecoded: %s\n%s\n", p, encoded, decoded, rule)

				if decoded != morse.Upper(p) {
					failed = append(failed, p)
				}
			}

			if check && len(failed) > 0 {
				return fmt.Errorf("%d phrase(s) did not round-trip: %q", len(failed), failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Fail when a phrase does not decode back to its uppercase form")
	return cmd
}
