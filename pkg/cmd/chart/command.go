package chart

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/birdayz/morse/pkg/app"
	pkgchart "github.com/birdayz/morse/pkg/chart"
	"github.com/birdayz/morse/pkg/morse"
)

// NewCommand returns the "morse chart" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		templateFlag     string
		templateFileFlag string
		classFlag        string
		outputFormat     = app.OutputFormatDefault
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the Morse code chart",
		Long:  "Print the Morse code chart. --template renders the table with a Go template (sprig functions available) over .Entries, .Letters, .Digits and .Punctuation.",
		Example: `  morse chart
  morse chart --output json
  morse chart --class punctuation
  morse chart --template '{{range .Letters}}{{.Char}} {{.Code}}{{"\n"}}{{end}}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols := morse.Symbols()
			if classFlag != "" {
				symbols = morse.SymbolsOf(morse.Class(classFlag))
				if len(symbols) == 0 {
					return fmt.Errorf("unknown class %q, must be one of: letter, digit, punctuation, separator", classFlag)
				}
			}

			if templateFileFlag != "" {
				b, err := os.ReadFile(templateFileFlag)
				if err != nil {
					return fmt.Errorf("read template: %w", err)
				}
				templateFlag = string(b)
			}
			if templateFlag != "" {
				return pkgchart.RenderTemplate(a.OutWriter, templateFlag, symbols)
			}

			switch outputFormat {
			case app.OutputFormatJSON:
				b, err := a.JSONFmt.Marshal(pkgchart.Entries(symbols))
				if err != nil {
					return fmt.Errorf("could not encode JSON: %w", err)
				}
				_, err = fmt.Fprintln(a.ColorableOut, string(b))
				return err
			case app.OutputFormatDefault:
				return pkgchart.Render(a.OutWriter, symbols)
			default:
				return fmt.Errorf("chart supports --output default or json, got %s", outputFormat)
			}
		},
	}

	cmd.Flags().StringVar(&templateFlag, "template", "", "Go template to render the chart with")
	cmd.Flags().StringVar(&templateFileFlag, "template-file", "", "File containing a Go template to render the chart with")
	cmd.Flags().Var(&outputFormat, "output", "Set output format: default, json")
	cmd.Flags().StringVar(&classFlag, "class", "", "Only show one class: letter, digit, punctuation, separator")
	cmd.MarkFlagsMutuallyExclusive("template", "template-file")

	if err := cmd.RegisterFlagCompletionFunc("class", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"letter", "digit", "punctuation", "separator"}, cobra.ShellCompDirectiveNoFileComp
	}); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}

	return cmd
}
