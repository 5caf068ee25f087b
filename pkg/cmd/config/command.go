package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/birdayz/morse/pkg/app"
	"github.com/birdayz/morse/pkg/config"
	"github.com/birdayz/morse/pkg/menu"
)

// NewCommand returns the "morse config" command with subcommands.
func NewCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Handle morse configuration",
		Long:  "Handle the morse configuration file: the Kafka clusters the relay connects to, the default output format and the menu prompter.",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "current-context",
			Short: "Displays the current cluster",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(a.OutWriter, a.Cfg.CurrentCluster)
			},
		},
		&cobra.Command{
			Use:               "use-cluster [NAME]",
			Short:             "Sets the current cluster in the configuration",
			Args:              cobra.ExactArgs(1),
			ValidArgsFunction: a.ValidConfigArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return useCluster(a, args[0])
			},
		},
		newGetClustersCommand(a),
		newAddClusterCommand(a),
		&cobra.Command{
			Use:               "remove-cluster [NAME]",
			Short:             "Remove a cluster from the configuration",
			Args:              cobra.ExactArgs(1),
			ValidArgsFunction: a.ValidConfigArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if !a.Cfg.RemoveCluster(args[0]) {
					return fmt.Errorf("could not delete cluster: cluster with name '%v' does not exist", args[0])
				}
				return save(a, "Removed cluster.")
			},
		},
		newSelectClusterCommand(a),
		&cobra.Command{
			Use:               "set-output [FORMAT]",
			Short:             "Sets the default output format of encode and decode",
			Args:              cobra.ExactArgs(1),
			ValidArgsFunction: app.CompleteOutputFormat,
			RunE: func(cmd *cobra.Command, args []string) error {
				a.Cfg.Output = args[0]
				return save(a, fmt.Sprintf("Default output set to %v.", args[0]))
			},
		},
		newImportCommand(a),
	)

	return cmd
}

func save(a *app.App, msg string) error {
	if err := a.Cfg.Save(); err != nil {
		return fmt.Errorf("unable to write config: %w", err)
	}
	fmt.Fprintln(a.OutWriter, msg)
	return nil
}

func useCluster(a *app.App, name string) error {
	if err := a.Cfg.UseCluster(name); err != nil {
		return fmt.Errorf("unable to switch cluster: %w", err)
	}
	fmt.Fprintf(a.OutWriter, "Switched to cluster \"%v\".\n", name)
	return nil
}

func newGetClustersCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-clusters",
		Short: "Display clusters in the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := app.NewTabWriter(a.OutWriter)
			if !a.NoHeaderFlag {
				fmt.Fprintf(w, "  NAME\tBROKERS\tSECURITY\t\n")
			}
			for _, cluster := range a.Cfg.Clusters {
				marker := "  "
				if cluster.Name == a.Cfg.CurrentCluster {
					marker = "* "
				}
				fmt.Fprintf(w, "%s%s\t%s\t%s\t\n", marker, cluster.Name, strings.Join(cluster.Brokers, ","), cluster.SecurityProtocol)
			}
			return w.Flush()
		},
	}
	a.AddNoHeadersFlag(cmd)
	return cmd
}

func newAddClusterCommand(a *app.App) *cobra.Command {
	var securityProtocol string

	cmd := &cobra.Command{
		Use:     "add-cluster [NAME]",
		Short:   "Add cluster",
		Example: "  morse config add-cluster local -b localhost:9092",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(a.BrokersFlag) == 0 {
				return fmt.Errorf("could not add cluster: no brokers given, use --brokers")
			}
			err := a.Cfg.AddCluster(&config.Cluster{
				Name:             args[0],
				Brokers:          a.BrokersFlag,
				SecurityProtocol: securityProtocol,
			})
			if err != nil {
				return fmt.Errorf("could not add cluster: %w", err)
			}
			return save(a, "Added cluster.")
		},
	}

	cmd.Flags().StringVar(&securityProtocol, "security-protocol", "", "Security protocol: PLAINTEXT, SSL, SASL_PLAINTEXT, SASL_SSL")
	return cmd
}

func newSelectClusterCommand(a *app.App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "select-cluster",
		Short: "Interactively select a cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(a.Cfg.Clusters) == 0 {
				return fmt.Errorf("no clusters configured, use add-cluster first")
			}
			names := make([]string, len(a.Cfg.Clusters))
			for i, cluster := range a.Cfg.Clusters {
				names[i] = cluster.Name
			}

			i, err := a.Prompter("CLUSTERS", plain).Choose(cmd.Context(), "Select cluster", names)
			switch {
			case errors.Is(err, menu.ErrCancelled):
				return nil
			case err != nil:
				return err
			}
			return useCluster(a, names[i])
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Use a numbered list instead of the interactive selector")
	return cmd
}

func newImportCommand(a *app.App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:       "import ccloud",
		Short:     "Import configurations into the $HOME/.morse/config file",
		ValidArgs: []string{"ccloud"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := file
			if path == "" {
				var err error
				if path, err = config.TryFindCcloudConfigFile(); err != nil {
					return fmt.Errorf("could not find Confluent Cloud config file: %w", err)
				}
			}
			fmt.Fprintf(a.OutWriter, "Detected Confluent Cloud config in file %v\n", path)

			cluster, err := config.ParseConfluentCloudConfig(path, "ccloud")
			if err != nil {
				return fmt.Errorf("failed to parse Confluent Cloud config: %w", err)
			}
			if a.Cfg.PutCluster(cluster) {
				return save(a, "Wrote new entry to config file")
			}
			return save(a, "Updated entry in config file")
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Confluent Cloud properties file (default is $HOME/.ccloud/config)")
	return cmd
}
