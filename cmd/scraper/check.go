package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	recommender "github.com/kailas-cloud/recommender/pkg/sdk"
)

type checkOptions struct {
	apiURL      string
	apiKey      string
	text        string
	maxDuration int
	testTypes   []string
	timeout     time.Duration
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Send a recommendation query to a running API and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runCheck(cmd, opts, logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.apiURL, "api-url", "http://localhost:8000", "recommender API base URL")
	f.StringVar(&opts.apiKey, "api-key", "", "Bearer token, if the API requires one")
	f.StringVar(&opts.text, "text", "", "query text")
	f.IntVar(&opts.maxDuration, "max-duration", 0, "maximum duration in minutes (0 = no limit)")
	f.StringSliceVar(&opts.testTypes, "test-type", nil, "test type filter (repeatable)")
	f.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "request timeout")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions, logger *zap.Logger) error {
	client, err := recommender.New(opts.apiURL,
		recommender.WithAPIKey(opts.apiKey),
		recommender.WithTimeout(opts.timeout),
	)
	if err != nil {
		return err //nolint:wrapcheck // already prefixed
	}

	ctx := cmd.Context()
	info, err := client.Info(ctx)
	if err != nil {
		return err //nolint:wrapcheck // already prefixed
	}
	logger.Debug("API reachable", zap.String("message", info))

	res, err := client.Recommend(ctx, recommender.Request{
		Text:        opts.text,
		MaxDuration: opts.maxDuration,
		TestTypes:   opts.testTypes,
	})
	if err != nil {
		return err //nolint:wrapcheck // already prefixed
	}

	logger.Info("Recommendation received",
		zap.String("message", res.Message),
		zap.Int("count", len(res.Recommendations)),
		zap.Bool("ranked", res.Ranked),
		zap.Int("oracle_calls", res.OracleCalls),
	)

	out := cmd.OutOrStdout()
	for i, a := range res.Recommendations {
		fmt.Fprintf(out, "%2d. %s [%s, %s] remote=%s adaptive=%s\n    %s\n",
			i+1, a.Name, a.TestType, a.Duration, a.RemoteTesting, a.AdaptiveIRT, a.URL)
	}
	if len(res.Recommendations) == 0 {
		fmt.Fprintln(out, res.Message)
	}
	return nil
}
