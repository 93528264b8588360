package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/graphprobe/graphprobe/pkg/cache"
	"github.com/graphprobe/graphprobe/pkg/config"
	"github.com/graphprobe/graphprobe/pkg/diagnose"
	"github.com/graphprobe/graphprobe/pkg/falkor"
	"github.com/graphprobe/graphprobe/pkg/graphiti"
	"github.com/graphprobe/graphprobe/pkg/langfuse"
)

func main() {
	var (
		addr     = pflag.String("addr", "", "FalkorDB address (host:port), overrides env")
		database = pflag.String("database", "", "graph name, overrides env")
		quote    = pflag.String("quote", "", "group_id quote style: single or double")
		probe    = pflag.StringSlice("probe", nil, "run only the named probes, in order")
		check    = pflag.Bool("check", false, "connection check only, skip the probe suite")
		dryRun   = pflag.Bool("dry-run", false, "list the probes that would run and exit")
		jsonOut  = pflag.Bool("json", false, "emit outcomes as JSON instead of a table")
		verbose  = pflag.BoolP("verbose", "v", false, "debug logging")
	)
	pflag.Parse()

	logger := zerolog.New(os.Stderr).With().
		Timestamp().
		Logger().
		Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	_ = godotenv.Load()

	cfg := config.Default()
	config.LoadFromEnv(cfg)
	if *addr != "" {
		host, port, err := splitAddr(*addr)
		if err != nil {
			logger.Fatal().Err(err).Msg("Invalid --addr")
		}
		cfg.FalkorHost, cfg.FalkorPort = host, port
	}
	if *database != "" {
		cfg.FalkorDatabase = *database
	}
	if *quote != "" {
		cfg.QuoteStyle = *quote
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	probes := selectProbes(*probe, logger)

	if *dryRun {
		for _, p := range probes {
			fmt.Printf("%-26s %s\n", p.Name, p.Description)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(len(probes))*diagnose.DefaultProbeTimeout)
	defer cancel()

	db, err := falkor.New(cfg.FalkorAddr(), cfg.FalkorDatabase)
	if err != nil {
		// Still report it through the verdict machinery.
		outcome := diagnose.Outcome{
			Probe:   "basic-connection",
			Verdict: diagnose.Classify(err),
			Detail:  err.Error(),
		}
		report([]diagnose.Outcome{outcome}, *jsonOut)
		os.Exit(1)
	}
	defer db.Close()

	if *check {
		if err := db.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Ping failed")
		}
		fmt.Printf("FalkorDB at %s is reachable (graph %s)\n", cfg.FalkorAddr(), cfg.FalkorDatabase)
		return
	}

	var extractor graphiti.Extractor
	if cfg.OpenAIKey != "" {
		extractor = graphiti.NewOpenAIExtractor(cfg.OpenAIKey, cfg.OpenAIModel)
		logger.Info().Str("model", cfg.OpenAIModel).Msg("Using OpenAI extraction")
	}

	client := graphiti.NewClient(db, graphiti.Options{
		Extractor:     extractor,
		GroupID:       cfg.GroupID,
		QuoteStyle:    cfg.QuoteStyle,
		SearchLimit:   cfg.SearchLimit,
		RetryAttempts: cfg.RetryAttempts,
		RetryBase:     time.Duration(cfg.RetryBaseMS) * time.Millisecond,
		Cache:         cache.NewMemoryCache(cfg.CacheSize, time.Duration(cfg.CacheTTL)*time.Second),
		Logger:        logger,
	})

	lfClient := langfuse.New(cfg.LangfuseHost, cfg.LangfusePublicKey, cfg.LangfuseSecretKey, logger)
	conversations := langfuse.SampleConversations(ctx, lfClient, 20)

	env := &diagnose.Env{DB: db, Client: client, Conversations: conversations, Logger: logger}
	outcomes := diagnose.NewRunner(env, probes).Run(ctx)

	report(outcomes, *jsonOut)

	for _, o := range outcomes {
		if o.Verdict == diagnose.VerdictUnexpected || o.Verdict == diagnose.VerdictConnectionFailed {
			os.Exit(1)
		}
	}
}

func selectProbes(names []string, logger zerolog.Logger) []diagnose.Probe {
	if len(names) == 0 {
		return diagnose.BuiltinProbes()
	}

	probes := make([]diagnose.Probe, 0, len(names))
	for _, name := range names {
		p, ok := diagnose.ProbeByName(name)
		if !ok {
			logger.Fatal().Str("probe", name).Msg("Unknown probe")
		}
		probes = append(probes, p)
	}
	return probes
}

func report(outcomes []diagnose.Outcome, asJSON bool) {
	if asJSON {
		if err := diagnose.WriteJSON(os.Stdout, outcomes); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write JSON: %v\n", err)
		}
		return
	}
	diagnose.WriteTable(os.Stdout, outcomes)
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("expected host:port: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	return host, port, nil
}
