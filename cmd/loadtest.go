package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/upskill/internal/loadtest"
	"github.com/okian/upskill/pkg/logger"
)

func newLoadTestCmd() *cobra.Command {
	var cfg loadtest.Config
	var logFormat string
	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Send concurrent recommendation queries to a running server and verify the responses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWith(os.Stderr, logFormat); err != nil {
				return err
			}
			_, err := loadtest.Run(cmd.Context(), cfg, logger.Get().Named("loadtest"))
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", loadtest.DefaultBaseURL, "base URL of the service")
	cmd.Flags().IntVar(&cfg.Requests, "requests", loadtest.DefaultRequests, "number of queries to send")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 0, "concurrent workers (default CPU cores * 2)")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", loadtest.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().BoolVar(&cfg.UseAI, "ai", false, "request AI enrichment on every query")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 0, "query generator seed (default: from the clock)")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every failed query")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
	return cmd
}
