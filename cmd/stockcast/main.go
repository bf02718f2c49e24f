// Package main provides the stockcast command line interface.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/stockcast/internal/backtest"
	"github.com/yourusername/stockcast/internal/config"
	"github.com/yourusername/stockcast/internal/database"
	"github.com/yourusername/stockcast/internal/health"
	"github.com/yourusername/stockcast/internal/logger"
	"github.com/yourusername/stockcast/internal/marketdata"
	"github.com/yourusername/stockcast/internal/metrics"
	"github.com/yourusername/stockcast/internal/models"
	"github.com/yourusername/stockcast/internal/repository"
	"github.com/yourusername/stockcast/internal/scheduler"
	"github.com/yourusername/stockcast/internal/sentiment"
	"github.com/yourusername/stockcast/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

var rootCmd = &cobra.Command{
	Use:   "stockcast",
	Short: "Walk-forward stock direction backtesting",
	Long: `Stockcast ingests daily bars, enriches them with point-in-time news
sentiment, and runs walk-forward backtests of next-day direction predictions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")

	rootCmd.AddCommand(newBacktestCmd())
	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSyncNewsCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newVersionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

func buildOracle() *sentiment.Service {
	news := sentiment.NewNewsClient(cfg.News, appLog)
	scorer := sentiment.NewHTTPScorer(&cfg.Sentiment, appLog)
	return sentiment.NewService(news, scorer, &cfg.Sentiment, cfg.News.LookbackDays, appLog)
}

func buildIngestionService() *service.IngestionService {
	httpCfg := marketdata.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.MarketData.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.MarketData.RetryAttempts
	httpCfg.RateLimit = cfg.MarketData.RateLimit

	httpClient := marketdata.NewRateLimitedHTTPClient(httpCfg, appLog)
	source := marketdata.NewChartClient(httpClient, cfg.MarketData.BaseURL, true, appLog)
	return service.NewIngestionService(source, repos.Bar, appLog)
}

func newBacktestCmd() *cobra.Command {
	var (
		symbol  string
		name    string
		output  string
		persist bool
	)

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Run a walk-forward backtest for a symbol",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" {
				cfg.Backtest.OutputPath = output
			}
			if cmd.Flags().Changed("persist") {
				cfg.Backtest.PersistEnabled = persist
			}

			svc, err := service.NewBacktestService(repos, buildOracle(), cfg, appLog)
			if err != nil {
				return err
			}

			outcome, err := svc.Run(cmd.Context(), symbol, name)
			if err != nil {
				return err
			}
			if outcome.Empty {
				fmt.Println("Not enough history for a single fold; no predictions produced.")
				return nil
			}

			runCfg, err := backtest.FromConfig(&cfg.Backtest, symbol, name)
			if err != nil {
				return err
			}
			fmt.Print(backtest.GenerateConsoleReport(runCfg, outcome.Result, outcome.Metrics))
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "Ticker symbol to backtest (required)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Company name used in news queries")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV export path (overrides config)")
	cmd.Flags().BoolVar(&persist, "persist", false, "Persist the run and predictions to the database")
	cmd.MarkFlagRequired("symbol")

	return cmd
}

func newIngestCmd() *cobra.Command {
	var (
		symbols []string
		period  string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch and store daily bars for one or more symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(symbols) == 0 {
				return fmt.Errorf("at least one symbol is required")
			}
			if period == "" {
				period = cfg.MarketData.DefaultPeriod
			}

			svc := buildIngestionService()
			if err := svc.SyncSymbols(cmd.Context(), symbols, period); err != nil {
				return err
			}

			m := svc.GetMetrics()
			fmt.Printf("Ingested %d bars (%d fetched, %d dropped by validation) in %s\n",
				m.StoredBars, m.TotalBars, m.ValidationErrors, m.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&symbols, "symbols", "s", nil, "Symbols to ingest (comma separated)")
	cmd.Flags().StringVarP(&period, "period", "p", "", "History period, e.g. 1y, 5y, max (defaults to config)")

	return cmd
}

func newServeCmd() *cobra.Command {
	var symbols []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled bar synchronization and the metrics endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(symbols) == 0 {
				return fmt.Errorf("at least one symbol is required")
			}

			sched := scheduler.NewScheduler(buildIngestionService(), appLog)
			if err := sched.ScheduleBarSync(cfg.Schedule.BarSync, symbols, cfg.MarketData.DefaultPeriod); err != nil {
				return err
			}
			if err := sched.ScheduleLiveRefresh(cfg.Schedule.LivePollingIntervalSeconds, symbols); err != nil {
				return err
			}
			if err := sched.ScheduleNewsRefresh(cfg.Schedule.BarSync, buildOracle(), symbolNames(symbols)); err != nil {
				return err
			}
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()

			healthServer := health.NewServer(health.Config{
				ServiceName: cfg.App.Name,
				Version:     Version,
				Commit:      GitCommit,
				Logger:      appLog,
				DB:          db,
				Scorer:      sentiment.NewHTTPScorer(&cfg.Sentiment, appLog),
			})
			if err := healthServer.Start(cmd.Context()); err != nil {
				return err
			}
			healthServer.SetReady(true)

			var metricsServer *http.Server
			if cfg.Metrics.Enabled {
				mux := http.NewServeMux()
				mux.Handle(cfg.Metrics.Path, metrics.Handler())
				metricsServer = &http.Server{
					Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
					Handler: mux,
				}
				go func() {
					appLog.WithFields(logrus.Fields{
						"port": cfg.Metrics.Port,
						"path": cfg.Metrics.Path,
					}).Info("Metrics endpoint listening")
					if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						appLog.WithField("error", err.Error()).Error("Metrics server failed")
					}
				}()
			}

			appLog.WithFields(logrus.Fields{
				"symbols":  strings.Join(symbols, ","),
				"next_run": sched.GetNextRun().Format(time.RFC3339),
			}).Info("Scheduler running")

			<-cmd.Context().Done()
			appLog.Info("Shutdown signal received")

			if metricsServer != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := metricsServer.Shutdown(shutdownCtx); err != nil {
					appLog.WithField("error", err.Error()).Error("Metrics server shutdown failed")
				}
			}
			return sched.Stop()
		},
	}

	cmd.Flags().StringSliceVarP(&symbols, "symbols", "s", nil, "Symbols to keep in sync (comma separated)")

	return cmd
}

// symbolNames maps each symbol to itself for news queries when no
// company name is supplied.
func symbolNames(symbols []string) map[string]string {
	names := make(map[string]string, len(symbols))
	for _, s := range symbols {
		names[s] = s
	}
	return names
}

func newSyncNewsCmd() *cobra.Command {
	var symbols []string

	cmd := &cobra.Command{
		Use:   "sync-news",
		Short: "Prefetch and cache sentiment coverage for symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(symbols) == 0 {
				return fmt.Errorf("at least one symbol is required")
			}

			oracle := buildOracle()
			asOf := time.Now().UTC().AddDate(0, 0, -1)
			for _, symbol := range symbols {
				if _, err := oracle.Lookup(cmd.Context(), symbol, symbol, asOf); err != nil {
					appLog.WithFields(logrus.Fields{
						"symbol": symbol,
						"error":  err.Error(),
					}).Warn("Sentiment prefetch failed")
					continue
				}
				fmt.Printf("%s: sentiment coverage cached through %s\n", symbol, asOf.Format("2006-01-02"))
			}

			hits, misses, ratio := oracle.CacheStats()
			fmt.Printf("Cache: %d hits, %d misses (%.0f%% hit ratio)\n", hits, misses, ratio*100)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&symbols, "symbols", "s", nil, "Symbols to prefetch (comma separated)")

	return cmd
}

func newStatusCmd() *cobra.Command {
	var symbol string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check database, sentiment scorer, and latest run status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			fmt.Print("Database: ")
			if err := db.HealthCheck(ctx); err != nil {
				fmt.Printf("UNAVAILABLE (%v)\n", err)
			} else {
				fmt.Println("OK")
			}

			fmt.Print("Sentiment scorer: ")
			scorer := sentiment.NewHTTPScorer(&cfg.Sentiment, appLog)
			if err := scorer.HealthCheck(ctx); err != nil {
				fmt.Printf("UNAVAILABLE (%v)\n", err)
			} else {
				fmt.Println("OK")
			}

			if symbol == "" {
				return nil
			}

			bars, err := repos.Bar.CountBySymbol(ctx, symbol)
			if err != nil {
				return err
			}
			fmt.Printf("\n%s: %d bars stored\n", symbol, bars)

			run, err := repos.BacktestRun.GetLatestBySymbol(ctx, symbol)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					fmt.Println("No backtest runs recorded.")
					return nil
				}
				return err
			}
			fmt.Printf("Latest run %s (%s): %d predictions, precision %.4f, accuracy %.4f, sentiment applied %d\n",
				run.ID, run.RunDate.Format("2006-01-02"), run.PredictedRows,
				run.Precision, run.Accuracy, run.SentimentApplied)
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "Show stored bars and latest run for a symbol")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("stockcast %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		},
	}
}
