package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/birdayz/morse/pkg/app"
	"github.com/birdayz/morse/pkg/cmd/chart"
	"github.com/birdayz/morse/pkg/cmd/completion"
	morseconfig "github.com/birdayz/morse/pkg/cmd/config"
	"github.com/birdayz/morse/pkg/cmd/demo"
	"github.com/birdayz/morse/pkg/cmd/menu"
	"github.com/birdayz/morse/pkg/cmd/relay"
	"github.com/birdayz/morse/pkg/cmd/transcode"
)

// Execute is the single entry point for the CLI.
func Execute(version, commit string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand(version, commit).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree around a fresh App.
func NewRootCommand(version, commit string) *cobra.Command {
	a := app.New()

	root := &cobra.Command{
		Use:          "morse",
		Short:        "Translate between text and Morse code",
		Long:         "Translate between text and Morse code. Without a subcommand, starts the interactive menu.",
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.OutWriter = cmd.OutOrStdout()
			a.ErrWriter = cmd.ErrOrStderr()
			a.InReader = cmd.InOrStdin()

			if a.OutWriter != os.Stdout {
				a.ColorableOut = a.OutWriter
				a.JSONFmt.DisabledColor = true
			}

			a.InitLogger()
			return a.LoadConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.Logger.Sync()
		},
		RunE: menu.RunE(a, nil),
	}

	root.PersistentFlags().StringVar(&a.CfgFile, "config", "", "config file (default is $HOME/.morse/config)")
	root.PersistentFlags().StringSliceVarP(&a.BrokersFlag, "brokers", "b", nil, "Comma separated list of broker ip:port pairs")
	root.PersistentFlags().StringVarP(&a.ClusterFlag, "cluster", "c", "", "set a temporary current cluster")
	root.PersistentFlags().BoolVarP(&a.Verbose, "verbose", "v", false, "Log diagnostics to stderr")

	root.AddCommand(
		transcode.NewEncodeCommand(a),
		transcode.NewDecodeCommand(a),
		chart.NewCommand(a),
		menu.NewCommand(a),
		demo.NewCommand(a),
		relay.NewCommand(a),
		morseconfig.NewCommand(a),
		completion.NewCommand(root, a),
	)

	return root
}
