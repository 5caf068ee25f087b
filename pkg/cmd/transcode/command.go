package transcode

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/birdayz/morse/pkg/app"
	"github.com/birdayz/morse/pkg/codec"
)

// NewEncodeCommand returns the "morse encode" command.
func NewEncodeCommand(a *app.App) *cobra.Command {
	return newCommand(a, codec.ModeEncode, &cobra.Command{
		Use:   "encode [TEXT...]",
		Short: "Encode text to Morse code",
		Long:  "Encode text to Morse code. Arguments are joined with a space; without arguments, every line of stdin is encoded. Characters without a code become '?'.",
		Example: `  morse encode SOS
  morse encode hello world --output json
  echo 'hello' | morse encode
  morse encode sos --output json-each-row | morse decode --input json-each-row`,
	})
}

// NewDecodeCommand returns the "morse decode" command.
func NewDecodeCommand(a *app.App) *cobra.Command {
	return newCommand(a, codec.ModeDecode, &cobra.Command{
		Use:   "decode [CODE...]",
		Short: "Decode Morse code to text",
		Long:  "Decode space separated Morse code to text. Use '/' between words. Arguments are joined with a space; without arguments, every line of stdin is decoded. Unknown codes become '?'.",
		Example: `  morse decode '... --- ...'
  morse decode -- -.. .- .... / -.. .- .... ...
  cat message.txt | morse decode --output hex`,
	})
}

func newCommand(a *app.App, mode codec.Mode, cmd *cobra.Command) *cobra.Command {
	var (
		outputFormat    = app.OutputFormatDefault
		inputFormatFlag = app.InputFormatDefault
		inputModeFlag   string
		bufferSizeFlag  int
	)

	c := codec.Morse{Mode: mode}

	cmd.Args = cobra.ArbitraryArgs
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("output") && a.Cfg.Output != "" {
			if err := outputFormat.Set(a.Cfg.Output); err != nil {
				return fmt.Errorf("invalid output format %q in config: %w", a.Cfg.Output, err)
			}
		}
		log := a.Logger.With(zap.String(app.FieldMode, string(mode)))

		run := func(input string) error {
			out, err := c.Transcode([]byte(input))
			if err != nil {
				return err
			}
			log.Debug("transcoded", zap.Int(app.FieldSize, len(input)))
			return a.PrintResult(app.Result{Mode: string(mode), Input: input, Output: string(out)}, outputFormat)
		}

		if len(args) > 0 {
			return run(strings.Join(args, " "))
		}

		// done stops the reader when run fails before the input ends.
		done := make(chan struct{})
		defer close(done)

		out := make(chan []byte, 1)
		errCh := make(chan error, 1)
		switch inputModeFlag {
		case "full":
			go readFull(a.InReader, out, errCh, done)
		default:
			go readLines(a.InReader, out, errCh, done, bufferSizeFlag)
		}

		var count int
		for data := range out {
			input, err := app.ParseInput(data, inputFormatFlag)
			if err != nil {
				fmt.Fprintf(a.ErrWriter, "%v.\n", err)
				continue
			}
			if err := run(input); err != nil {
				return err
			}
			count++
		}
		log.Debug("finished reading input", zap.Int(app.FieldCount, count))

		select {
		case err := <-errCh:
			return err
		default:
			return nil
		}
	}

	cmd.Flags().Var(&outputFormat, "output", "Set output format: default, raw, json, json-each-row, hex, msgpack (raw adds no newline)")
	cmd.Flags().Var(&inputFormatFlag, "input", "Set input format: default, hex, json-each-row (json-each-row reads the output of --output json-each-row)")
	cmd.Flags().StringVarP(&inputModeFlag, "input-mode", "", "line", "Scanning input mode: [line|full]")
	cmd.Flags().IntVarP(&bufferSizeFlag, "line-length-limit", "", 0, "line length limit in line input mode")

	if err := cmd.RegisterFlagCompletionFunc("output", app.CompleteOutputFormat); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}
	if err := cmd.RegisterFlagCompletionFunc("input", app.CompleteInputFormat); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}

	return cmd
}

func readLines(reader io.Reader, out chan<- []byte, errCh chan<- error, done <-chan struct{}, bufferSize int) {
	defer close(out)
	scanner := bufio.NewScanner(reader)
	if bufferSize > 0 {
		scanner.Buffer(make([]byte, bufferSize), bufferSize)
	}
	for scanner.Scan() {
		select {
		case out <- bytes.Clone(scanner.Bytes()):
		case <-done:
			return
		}
	}
	// errCh is buffered; report before close so the reader sees it.
	if err := scanner.Err(); err != nil {
		errCh <- fmt.Errorf("scanning input failed: %w", err)
	}
}

func readFull(reader io.Reader, out chan<- []byte, errCh chan<- error, done <-chan struct{}) {
	defer close(out)
	data, err := io.ReadAll(reader)
	if err != nil {
		errCh <- fmt.Errorf("unable to read data: %w", err)
		return
	}
	select {
	case out <- data:
	case <-done:
	}
}
