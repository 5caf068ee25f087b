package relay

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/birdayz/morse/pkg/app"
	"github.com/birdayz/morse/pkg/codec"
	pkgrelay "github.com/birdayz/morse/pkg/relay"
)

// NewCommand returns the "morse relay" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		mode              = codec.ModeEncode
		offsetFlag        string
		groupFlag         string
		groupCommitFlag   bool
		follow            bool
		limitMessagesFlag int64
		decodeMsgPack     bool
		createTopic       bool
		partitions        int32
		replicationFactor int16
	)

	cmd := &cobra.Command{
		Use:   "relay SOURCE DEST",
		Short: "Transcode records from one topic into another",
		Long:  "Consume records from SOURCE, encode or decode each value, and produce the result to DEST with the same key and headers plus a morse-mode header. Without --follow or --group, stops at the end offsets observed at start.",
		Example: `  morse relay plain-text morse-text
  morse relay morse-text plain-text --mode decode -f
  morse relay in out -g morse-relay --commit -f
  morse relay in out --decode-msgpack --create-topic`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: a.ValidTopicArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, dest := args[0], args[1]
			ctx := cmd.Context()
			log := a.Logger.Named("relay")

			if source == dest {
				return fmt.Errorf("source and destination topic must differ")
			}

			c, err := codec.ForMode(mode, decodeMsgPack)
			if err != nil {
				return err
			}

			opts := []kgo.Opt{kgo.ConsumeTopics(source)}
			if groupFlag != "" {
				opts = append(opts, kgo.ConsumerGroup(groupFlag))
				if !groupCommitFlag {
					opts = append(opts, kgo.DisableAutoCommit())
				}
			}
			switch offsetFlag {
			case "oldest":
				opts = append(opts, kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()))
			case "newest":
				if !follow && groupFlag == "" {
					return fmt.Errorf("--offset newest needs --follow or --group")
				}
				opts = append(opts, kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()))
			default:
				o, err := strconv.ParseInt(offsetFlag, 10, 64)
				if err != nil {
					return fmt.Errorf("could not parse '%s' to int64: %v", offsetFlag, err)
				}
				opts = append(opts, kgo.ConsumeResetOffset(kgo.NewOffset().At(o)))
			}

			r := &pkgrelay.Relay{
				Source: source,
				Dest:   dest,
				Mode:   mode,
				Codec:  c,
				Commit: groupCommitFlag && groupFlag != "",
				Limit:  limitMessagesFlag,
				Log:    log,
			}

			admCl, err := a.NewKafkaClient()
			if err != nil {
				return err
			}
			defer admCl.Close()

			if createTopic {
				created, err := admCl.EnsureTopic(ctx, dest, partitions, replicationFactor)
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(a.OutWriter, "Created topic %v.\n", dest)
				}
			}

			if groupFlag == "" {
				ends, err := admCl.EndOffsets(ctx, source)
				if err != nil {
					return fmt.Errorf("failed to get end offsets: %w", err)
				}
				if len(ends) == 0 {
					return fmt.Errorf("topic %v not found", source)
				}
				for p := range ends {
					r.Partitions = append(r.Partitions, p)
				}
				if !follow {
					r.EndOffsets = ends
				}
			}

			cl, err := a.NewKafkaClient(opts...)
			if err != nil {
				return err
			}
			defer cl.Close()

			stats, err := r.Run(ctx, cl.KGO)
			log.Info("relay finished",
				zap.Int64("consumed", stats.Consumed),
				zap.Int64("produced", stats.Produced),
				zap.Int64("failed", stats.Failed))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.OutWriter, "Relayed %d record(s) from %v to %v (%d skipped).\n", stats.Produced, source, dest, stats.Failed)
			return nil
		},
	}

	cmd.Flags().Var(&mode, "mode", "Transcoding direction: encode, decode")
	cmd.Flags().StringVar(&offsetFlag, "offset", "oldest", "Offset to start consuming. Possible values: oldest, newest, or integer.")
	cmd.Flags().StringVarP(&groupFlag, "group", "g", "", "Consumer Group to use for consume")
	cmd.Flags().BoolVar(&groupCommitFlag, "commit", false, "Commit Group offset after relaying messages. Works only if consuming as Consumer Group")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Continue to relay messages until program execution is interrupted/terminated")
	cmd.Flags().Int64VarP(&limitMessagesFlag, "limit-messages", "l", 0, "Limit messages per partition")
	cmd.Flags().BoolVar(&decodeMsgPack, "decode-msgpack", false, "Source values are msgpack-encoded strings")
	cmd.Flags().BoolVar(&createTopic, "create-topic", false, "Create the destination topic if it does not exist")
	cmd.Flags().Int32Var(&partitions, "partitions", 1, "Partitions of a created destination topic")
	cmd.Flags().Int16Var(&replicationFactor, "replication-factor", 1, "Replication factor of a created destination topic")

	if err := cmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"encode", "decode"}, cobra.ShellCompDirectiveNoFileComp
	}); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}

	return cmd
}
