package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/robohub/pkg/batch"
	"github.com/umputun/robohub/pkg/config"
	"github.com/umputun/robohub/pkg/content"
	"github.com/umputun/robohub/pkg/feed"
	"github.com/umputun/robohub/pkg/llm"
	"github.com/umputun/robohub/pkg/market"
	"github.com/umputun/robohub/pkg/repository"
	"github.com/umputun/robohub/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"configuration file, defaults are used if not set"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
	Once   bool   `long:"once" description:"run a single batch, print its stats and exit"`
	Check  bool   `long:"check" description:"report missing credentials and exit"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

// stdout receives the output of --once and --check
var stdout io.Writer = os.Stdout

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)
	log.Printf("[INFO] starting robohub version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	// re-setup logging to mask credentials known only after config load
	setupLog(opts.Debug, opts.NoColor, cfg.Secrets()...)

	if opts.Check {
		return reportChecks(stdout, cfg.Checks())
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer repos.Close()

	fallbacks, err := loadFallbacks(cfg.Feeds.Fallbacks)
	if err != nil {
		return fmt.Errorf("failed to load feed fallbacks: %w", err)
	}

	chat := llm.NewOpenAI(cfg.LLM)
	if chat == nil {
		log.Printf("[WARN] llm api key is not set, enrichment and agent queries will fail")
	}
	runner := newRunner(cfg, repos, chat, fallbacks)

	if opts.Once {
		res := runner.Run(ctx)
		if err := printJSON(stdout, res); err != nil {
			return err
		}
		if !res.Success {
			return errors.New(res.Message)
		}
		return nil
	}

	sched := batch.NewScheduler(runner, cfg.Batch.Interval)
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(cfg, server.NewRepositoryAdapter(repos), runner, llm.NewAgent(chat, cfg.LLM), revision, opts.Debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// loadConfig reads the config file, or returns defaults if path is empty
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newRunner wires the batch pipeline from config and storage
func newRunner(cfg *config.Config, repos *repository.Repositories, chat llm.ChatClient, fallbacks map[string][]byte) *batch.Runner {
	params := batch.Params{
		Sources:   repos.Source,
		RawNews:   repos.RawNews,
		Articles:  repos.Article,
		Snapshots: repos.Snapshot,
		Fetcher: feed.NewFetcher(feed.Params{
			Timeout:   cfg.Feeds.Timeout,
			UserAgent: cfg.Feeds.UserAgent,
			Retries:   cfg.Feeds.Retry.Retries,
			BaseDelay: cfg.Feeds.Retry.BaseDelay,
			MaxDelay:  cfg.Feeds.Retry.MaxDelay,
		}),
		Enricher: llm.NewEnricher(chat, cfg.LLM),
		Market: market.NewClient(market.Params{
			Endpoint:  cfg.Market.Endpoint,
			APIKey:    cfg.Market.APIKey,
			Timeout:   cfg.Market.Timeout,
			Retries:   cfg.Market.Retry.Retries,
			BaseDelay: cfg.Market.Retry.BaseDelay,
			MaxDelay:  cfg.Market.Retry.MaxDelay,
		}),
		Fallbacks:         fallbacks,
		Workers:           cfg.Batch.Workers,
		MaxEnrichAttempts: cfg.Batch.MaxEnrichAttempts,
		MinTextLength:     cfg.Extraction.MinTextLength,
	}
	if cfg.Extraction.Enabled {
		params.Extractor = content.NewHTTPExtractor(content.Params{
			Timeout:   cfg.Extraction.Timeout,
			UserAgent: cfg.Extraction.UserAgent,
			Retries:   cfg.Feeds.Retry.Retries,
		})
	}
	return batch.NewRunner(params)
}

// loadFallbacks reads local feed copies keyed by feed url
func loadFallbacks(files map[string]string) (map[string][]byte, error) {
	res := make(map[string][]byte, len(files))
	for feedURL, path := range files {
		data, err := os.ReadFile(path) //nolint:gosec // path comes from trusted config
		if err != nil {
			return nil, fmt.Errorf("read fallback for %s: %w", feedURL, err)
		}
		res[feedURL] = data
	}
	return res, nil
}

// reportChecks prints the state of each required setting, failing if any is missing
func reportChecks(w io.Writer, checks []config.Check) error {
	missing := 0
	for _, c := range checks {
		if c.OK {
			fmt.Fprintf(w, "[ok]      %s\n", c.Key)
			continue
		}
		missing++
		fmt.Fprintf(w, "[missing] %s: %s\n", c.Key, c.Message)
	}
	if missing > 0 {
		return fmt.Errorf("%d required setting(s) missing", missing)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
