package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const envPrefix = "STATISTIC_ANALYZER"

func main() {
	// Load environment from .env files for local development.
	_ = godotenv.Load(".env")

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root, logLevel := newRootCommand()
	if err := root.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Send()
	}
	if err := setLogLevel(*logLevel); err != nil {
		log.Fatal().Err(err).Send()
	}
	if err := root.Run(ctx); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.FlagSet.Usage()
			return
		}
		log.Fatal().Err(err).Send()
	}
}

func newRootCommand() (*ffcli.Command, *string) {
	rootFlags := flag.NewFlagSet("statistic_analyzer", flag.ContinueOnError)
	logLevel := rootFlags.String("log-level", "info", "log level (trace, debug, info, warn, error)")

	root := &ffcli.Command{
		ShortUsage:  "statistic_analyzer [-log-level level] <subcommand> [flags]",
		FlagSet:     rootFlags,
		Options:     []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Subcommands: []*ffcli.Command{newAnalyzeCommand(&analyzeConfig{}), newServiceCommand(&serviceConfig{})},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}
	return root, logLevel
}

func newAnalyzeCommand(cfg *analyzeConfig) *ffcli.Command {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.StringVar(&cfg.file, "file", "", "path to a whitespace separated sample file")
	fs.StringVar(&cfg.source, "source", sourceFile, "sample source: file or postgres")
	fs.IntVar(&cfg.intervals, "intervals", 10, "number of equal-width intervals")
	fs.IntVar(&cfg.page, "page", 1, "page of the samples table (postgres source)")
	fs.IntVar(&cfg.perPage, "per-page", 1000, "rows per page (postgres source)")
	fs.StringVar(&cfg.sortedOut, "sorted-out", "", "write the sorted sample to this file")
	fs.StringVar(&cfg.intervalsOut, "intervals-out", "", "write the interval table to this file")
	fs.StringVar(&cfg.graphOut, "graph-out", "", "write the empirical and normal curve points to this file")
	fs.Var(&cfg.erase, "erase", "erase the first occurrence of this value before analysis (repeatable)")

	return &ffcli.Command{
		Name:       "analyze",
		ShortUsage: "statistic_analyzer analyze [flags] [<path>]",
		ShortHelp:  "Analyze one sample and log its statistics",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec: func(ctx context.Context, args []string) error {
			if cfg.file == "" && len(args) > 0 {
				cfg.file = args[0]
			}
			return runAnalyze(ctx, *cfg)
		},
	}
}

func newServiceCommand(cfg *serviceConfig) *ffcli.Command {
	fs := flag.NewFlagSet("service", flag.ContinueOnError)
	fs.StringVar(&cfg.redisURL, "redis-url", envOr("REDIS_URL", "redis://localhost:6379/0"), "Redis URL")
	fs.StringVar(&cfg.queue, "queue", envOr("WORKER_QUEUE", "default"), "Sidekiq queue name")

	return &ffcli.Command{
		Name:       "service",
		ShortUsage: "statistic_analyzer service [flags]",
		ShortHelp:  "Run as background service listening to a Sidekiq queue",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec: func(ctx context.Context, _ []string) error {
			return runService(ctx, *cfg)
		},
	}
}

func setLogLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(l)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
