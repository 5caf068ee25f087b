package app

import (
	"github.com/spf13/cobra"

	"github.com/birdayz/morse/pkg/config"
)

// ValidTopicArgs completes topic names from the resolved cluster.
func (a *App) ValidTopicArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cl, err := a.NewKafkaClient()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer cl.Close()

	names, err := cl.TopicNames(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// ValidConfigArgs completes cluster names from the config.
func (a *App) ValidConfigArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, 0, len(a.Cfg.Clusters))
	for _, cluster := range a.Cfg.Clusters {
		names = append(names, cluster.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// CompleteOutputFormat completes --output and config set-output.
func CompleteOutputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return config.OutputFormats, cobra.ShellCompDirectiveNoFileComp
}

// CompleteInputFormat completes --input.
func CompleteInputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"default", "json-each-row", "hex"}, cobra.ShellCompDirectiveNoFileComp
}
