package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/recommender/internal/logger"
	"github.com/kailas-cloud/recommender/internal/version"
)

const app = "scraper"

type rootOptions struct {
	debug   bool
	jsonLog bool
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	env := "local"
	if o.jsonLog {
		env = "prod"
	}
	level := "info"
	if o.debug {
		level = "debug"
	}
	return logpkg.New(env, logpkg.Options{Level: level, Service: app, Version: version.Version}) //nolint:wrapcheck // surfaced by cobra
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           app,
		Short:         "scraper builds the assessment catalog and checks the recommendation API",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolVarP(&opts.jsonLog, "json", "j", false, "json format for logging")

	root.AddCommand(newFetchCmd(opts), newCheckCmd(opts))
	return root
}
