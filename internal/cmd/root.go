// Package cmd holds the command line entry points: serving the API, preparing
// the database and listing the route table.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vintegcorp/vintegcorp/internal/config"
)

type rootOptions struct {
	configFile string
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "vintegcorp",
		Short:         "VIntegCorp intranet API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (environment variables take precedence)")

	root.AddCommand(newServeCmd(opts), newMigrateCmd(opts), newRoutesCmd(opts))
	return root
}

// Execute runs the command line
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	return config.Load(o.configFile)
}
