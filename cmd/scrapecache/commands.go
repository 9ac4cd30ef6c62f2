// cmd/scrapecache/commands.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/valpere/ScrapeCache/internal/cache"
	"github.com/valpere/ScrapeCache/internal/config"
	"github.com/valpere/ScrapeCache/internal/monitoring"
	"github.com/valpere/ScrapeCache/internal/scraper"
	"github.com/valpere/ScrapeCache/internal/server"
	"github.com/valpere/ScrapeCache/internal/utils"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scrapecache",
		Short:         "scrapecache extracts catalogue pages into JSON records behind a TTL cache.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "path to scrapecache.yaml (defaults apply when empty)")
	root.PersistentFlags().BoolP("verbose", "v", false, "include technical details in error output")

	root.AddCommand(newServeCmd(), newFetchCmd(), newConfigCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serves the catalogue API over HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())

			var metrics *monitoring.MetricsManager
			if cfg.Metrics.Enabled {
				metrics = monitoring.NewMetricsManager(monitoring.MetricsConfig{EnableGoMetrics: true})
			}

			engine, err := buildEngine(cfg, logger, metrics)
			if err != nil {
				return err
			}

			srv := server.New(engine, server.Options{
				Logger:      logger,
				Metrics:     metrics,
				MetricsPath: cfg.Metrics.Path,
				Version:     version,
			})
			return srv.ListenAndServe(cmd.Context(), cfg.Server)
		},
	}
}

func newFetchCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "fetch <type> [id]",
		Short: "Extracts one resource and prints it as JSON.",
		Long: "Types: movie, credits, person, reviews, keywords, genres, " +
			"discover, popular, top_rated, upcoming, popular_persons.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			engine, err := buildEngine(cfg, newLogger(cfg, cmd.ErrOrStderr()), nil)
			if err != nil {
				return err
			}

			var id string
			if len(args) == 2 {
				id = args[1]
			}
			record, err := fetchResource(cmd.Context(), engine, scraper.ResourceType(args[0]), id, page)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(record)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "listing page")
	return cmd
}

func fetchResource(ctx context.Context, engine *scraper.Engine, kind scraper.ResourceType, id string, page int) (any, error) {
	var (
		record any
		err    error
	)
	switch kind {
	case scraper.ResourceMovie:
		record, _, err = engine.Movie(ctx, id)
	case scraper.ResourceCredits:
		record, _, err = engine.Credits(ctx, id)
	case scraper.ResourcePerson:
		record, _, err = engine.Person(ctx, id)
	case scraper.ResourceReviews:
		record, _, err = engine.Reviews(ctx, id)
	case scraper.ResourceKeywords:
		record, _, err = engine.Keywords(ctx, id)
	case scraper.ResourceGenres:
		record, _, err = engine.GenreList(ctx)
	default:
		if !kind.IsListing() {
			return nil, &scraper.EngineError{
				Kind: scraper.KindInvalid,
				Key:  scraper.ResourceKey{Type: kind, ID: id},
				Err:  fmt.Errorf("%w: unknown resource type %q", scraper.ErrInvalidRequest, kind),
			}
		}
		record, _, err = engine.Listing(ctx, kind, page)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "template",
		Short: "Prints a configuration file with every default filled in.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateTemplate()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Validates a configuration file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			for _, w := range cfg.ValidateWithDetails().Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration file '%s' is valid\n", args[0])
			return nil
		},
	})
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints version information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scrapecache %s (commit %s, built %s)\n", version, gitCommit, buildTime)
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("SCRAPECACHE_CONFIG")
	}
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) utils.Logger {
	return utils.NewLoggerWithOptions(utils.LoggerOptions{
		Level:  utils.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: out,
	})
}

func buildEngine(cfg *config.Config, logger utils.Logger, metrics *monitoring.MetricsManager) (*scraper.Engine, error) {
	fetcher := scraper.NewHTTPFetcher(scraper.ClientConfig{
		Timeout:    cfg.Source.Timeout,
		UserAgents: cfg.Source.UserAgents,
		Headers:    cfg.Source.Headers,
		RateLimit:  cfg.Source.RateLimit,
		RateBurst:  cfg.Source.RateBurst,
		ProxyURL:   cfg.Source.ProxyURL,
	})
	store := cache.New(cache.Options{MaxEntries: cfg.Cache.MaxEntries})

	engine, err := scraper.NewEngine(fetcher, store,
		scraper.WithBaseURL(cfg.Source.BaseURL),
		scraper.WithLogger(logger),
		scraper.WithMetrics(metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return engine, nil
}
