package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/upskill/internal/adapters/ai/gemini"
	"github.com/okian/upskill/internal/adapters/csvsource"
	app "github.com/okian/upskill/internal/app"
	"github.com/okian/upskill/internal/config"
	"github.com/okian/upskill/internal/domain/catalog"
	"github.com/okian/upskill/pkg/logger"
)

const appName = "upskill"

var cfgFile string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "upskill recommends online courses for a target job role",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default: $UPSKILL_CONFIG)")

	root.AddCommand(newServeCmd(), newRecommendCmd(), newCareerPathCmd(), newLoadTestCmd())
	return root
}

// setup loads configuration and initializes the global logger.
func setup(ctx context.Context) (*config.Config, logger.Logger, error) {
	load := config.Load
	if cfgFile != "" {
		load = func(ctx context.Context) (*config.Config, error) { return config.LoadFrom(ctx, cfgFile) }
	}
	cfg, err := load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.InitWith(os.Stderr, cfg.LogFormat); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, log, nil
}

// newService builds and starts the recommender from cfg. AI features are
// enabled only when an API key is configured and the client can be created.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	opts := []app.Option{
		app.WithLogger(log),
		app.WithSources(
			csvsource.Source{Location: cfg.UdemySource, Schema: catalog.Udemy},
			csvsource.Source{Location: cfg.CourseraSource, Schema: catalog.Coursera},
		),
		app.WithEnrichmentTimeout(time.Duration(cfg.EnrichmentTimeoutMS) * time.Millisecond),
		app.WithWorkerCount(cfg.EnrichmentWorkers),
		app.WithQueueSize(cfg.EnrichmentQueueSize),
		app.WithRateLimit(cfg.EnrichmentRatePerSec, cfg.EnrichmentBurst),
		app.WithMaxFeatures(cfg.MaxFeatures),
	}

	if cfg.GeminiAPIKey != "" {
		gen, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn(ctx, "gemini client unavailable; AI features disabled", logger.Error(err))
		} else {
			log.Info(ctx, "gemini client configured", logger.String("model", gen.Model()))
			opts = append(opts, app.WithGenerator(gen))
		}
	} else {
		log.Info(ctx, "no Gemini API key configured; AI features disabled")
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start service: %w", err)
	}
	return svc, nil
}
