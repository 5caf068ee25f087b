package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/birdayz/morse/pkg/config"
)

// OutputFormat controls how transcoding results are printed.
type OutputFormat string

const (
	OutputFormatDefault     OutputFormat = "default"
	OutputFormatRaw         OutputFormat = "raw"
	OutputFormatJSON        OutputFormat = "json"
	OutputFormatJSONEachRow OutputFormat = "json-each-row"
	OutputFormatHex         OutputFormat = "hex"
	OutputFormatMsgPack     OutputFormat = "msgpack"
)

func (e *OutputFormat) String() string {
	return string(*e)
}

func (e *OutputFormat) Set(v string) error {
	if !slices.Contains(config.OutputFormats, v) {
		return fmt.Errorf("must be one of: %s", strings.Join(config.OutputFormats, ", "))
	}
	*e = OutputFormat(v)
	return nil
}

func (e *OutputFormat) Type() string {
	return "OutputFormat"
}

// InputFormat controls how input lines are read.
type InputFormat string

const (
	InputFormatDefault     InputFormat = "default"
	InputFormatJSONEachRow InputFormat = "json-each-row"
	InputFormatHex         InputFormat = "hex"
)

func (e *InputFormat) String() string {
	return string(*e)
}

func (e *InputFormat) Set(v string) error {
	switch v {
	case "default", "json-each-row", "hex":
		*e = InputFormat(v)
		return nil
	default:
		return fmt.Errorf("must be one of: default, json-each-row, hex")
	}
}

func (e *InputFormat) Type() string {
	return "InputFormat"
}

// Result is one transcoding, as printed by the structured output formats.
type Result struct {
	Mode   string `json:"mode" msgpack:"mode"`
	Input  string `json:"input" msgpack:"input"`
	Output string `json:"output" msgpack:"output"`
}

// ParseInput turns one line of input into the text to transcode. With
// json-each-row the line must be a Result and its output is used, so
// results can be piped back in.
func ParseInput(data []byte, format InputFormat) (string, error) {
	switch format {
	case InputFormatHex:
		dst := make([]byte, hex.DecodedLen(len(data)))
		if _, err := hex.Decode(dst, data); err != nil {
			return "", fmt.Errorf("failed to decode hex input: %w", err)
		}
		return string(dst), nil
	case InputFormatJSONEachRow:
		var res Result
		if err := json.Unmarshal(data, &res); err != nil {
			return "", fmt.Errorf("failed to decode json-each-row input: %w", err)
		}
		return res.Output, nil
	default:
		return string(data), nil
	}
}

// FormatResult renders res according to format. The returned bytes
// end in a newline, except for raw and msgpack.
func (a *App) FormatResult(res Result, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatJSON:
		b, err := a.JSONFmt.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("could not encode JSON: %w", err)
		}
		return append(b, '\n'), nil
	case OutputFormatJSONEachRow:
		b, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("could not encode JSON: %w", err)
		}
		return append(b, '\n'), nil
	case OutputFormatHex:
		return []byte(hex.EncodeToString([]byte(res.Output)) + "\n"), nil
	case OutputFormatMsgPack:
		b, err := msgpack.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("could not encode msgpack: %w", err)
		}
		return b, nil
	case OutputFormatRaw:
		return []byte(res.Output), nil
	default:
		return []byte(res.Output + "\n"), nil
	}
}

// PrintResult formats res and writes it to the colorable output.
func (a *App) PrintResult(res Result, format OutputFormat) error {
	b, err := a.FormatResult(res, format)
	if err != nil {
		return err
	}
	_, err = a.ColorableOut.Write(b)
	return err
}
