// Package chart renders the Morse reference chart.
package chart

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/birdayz/morse/pkg/morse"
)

const width = 50

// Entry is the display form of one table entry.
type Entry struct {
	Char  string      `json:"char"`
	Code  string      `json:"code"`
	Class morse.Class `json:"class"`
}

// Entries converts symbols to display entries, keeping their order.
func Entries(symbols []morse.Symbol) []Entry {
	out := make([]Entry, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, Entry{Char: string(s.Char), Code: s.Code, Class: s.Class})
	}
	return out
}

// Render writes the chart: letters two per row, digits one per line and
// punctuation two per row. The word separator is not listed.
func Render(w io.Writer, symbols []morse.Symbol) error {
	data := newTemplateData(symbols)

	var b strings.Builder
	rule := strings.Repeat("=", width)
	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintln(&b, "          MORSE CODE CHART")
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "LETTER  MORSE     LETTER  MORSE")
	fmt.Fprintln(&b, strings.Repeat("-", width))
	writePairs(&b, data.Letters)

	fmt.Fprintln(&b, "\nNUMBERS:")
	for _, e := range data.Digits {
		fmt.Fprintf(&b, "%6s %s\n", e.Char, e.Code)
	}

	fmt.Fprintln(&b, "\nSYMBOLS:")
	writePairs(&b, data.Punctuation)

	_, err := io.WriteString(w, b.String())
	return err
}

func writePairs(b *strings.Builder, entries []Entry) {
	for i := 0; i < len(entries); i += 2 {
		if i+1 < len(entries) {
			fmt.Fprintf(b, "%-6s %-8s %-6s %s\n", entries[i].Char, entries[i].Code, entries[i+1].Char, entries[i+1].Code)
			continue
		}
		fmt.Fprintf(b, "%-6s %s\n", entries[i].Char, entries[i].Code)
	}
}

// TemplateData is the value templates are executed against.
type TemplateData struct {
	Entries     []Entry
	Letters     []Entry
	Digits      []Entry
	Punctuation []Entry
}

func newTemplateData(symbols []morse.Symbol) TemplateData {
	data := TemplateData{Entries: Entries(symbols)}
	for _, e := range data.Entries {
		switch e.Class {
		case morse.ClassLetter:
			data.Letters = append(data.Letters, e)
		case morse.ClassDigit:
			data.Digits = append(data.Digits, e)
		case morse.ClassPunctuation:
			data.Punctuation = append(data.Punctuation, e)
		}
	}
	return data
}

// RenderTemplate executes text as a Go template with the sprig function
// map. Example: `{{range .Letters}}{{.Char}}={{.Code}} {{end}}`.
func RenderTemplate(w io.Writer, text string, symbols []morse.Symbol) error {
	tpl, err := template.New("chart").Funcs(sprig.HermeticTxtFuncMap()).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse go template: %w", err)
	}

	if err := tpl.Execute(w, newTemplateData(symbols)); err != nil {
		return fmt.Errorf("failed to execute go template: %w", err)
	}
	return nil
}
