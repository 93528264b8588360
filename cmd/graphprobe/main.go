package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/graphprobe/graphprobe/pkg/cache"
	"github.com/graphprobe/graphprobe/pkg/config"
	"github.com/graphprobe/graphprobe/pkg/entities"
	"github.com/graphprobe/graphprobe/pkg/entitystore"
	"github.com/graphprobe/graphprobe/pkg/falkor"
	"github.com/graphprobe/graphprobe/pkg/graph"
	"github.com/graphprobe/graphprobe/pkg/server"
	"github.com/graphprobe/graphprobe/pkg/validation"
)

func main() {
	// Setup logger
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Logger().
		Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	// .env is optional
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Default()
	if path := os.Getenv("GRAPHPROBE_CONFIG"); path != "" {
		if err := config.LoadFromFile(cfg, path); err != nil {
			logger.Fatal().Err(err).Str("path", path).Msg("Failed to load config file")
		}
	}
	config.LoadFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	printBanner(cfg)

	// Initialize the side store
	var storeConfig map[string]interface{}
	if cfg.StoreBackend == "sqlite" {
		storeConfig = map[string]interface{}{"db_path": cfg.DBPath}
	} else {
		storeConfig = map[string]interface{}{"store_dir": cfg.StoreDir}
	}

	backend, err := entitystore.NewBackend(cfg.StoreBackend, storeConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize store backend")
	}
	store, err := entitystore.New(context.Background(), backend, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open entity store")
	}
	defer store.Close()

	entityCount, relCount := store.Len()
	logger.Info().
		Str("backend", cfg.StoreBackend).
		Int("entities", entityCount).
		Int("relationships", relCount).
		Msg("Entity store opened")

	// Initialize cache
	var cacheInstance cache.Cache
	if cfg.CacheType == "redis" {
		// FalkorDB is a Redis server, so the cache shares the instance.
		redisCache, err := cache.NewRedisCache(cfg.FalkorAddr(), time.Duration(cfg.CacheTTL)*time.Second)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Redis, falling back to memory cache")
			cacheInstance = cache.NewMemoryCache(cfg.CacheSize, time.Duration(cfg.CacheTTL)*time.Second)
		} else {
			cacheInstance = redisCache
			logger.Info().Msg("Using Redis cache")
		}
	} else {
		cacheInstance = cache.NewMemoryCache(cfg.CacheSize, time.Duration(cfg.CacheTTL)*time.Second)
		logger.Info().Msg("Using in-memory cache")
	}
	defer cacheInstance.Close()

	// Rebuild the relationship index from the store
	graphIndex := graph.NewIndex()
	graphIndex.Rebuild(store.Entities(), store.Relationships())
	logger.Info().
		Int("nodes", graphIndex.NodeCount()).
		Int("edges", graphIndex.EdgeCount()).
		Msg("Relationship index built")

	// Validator over the fixture schemas
	validator := validation.NewSchemaValidator(entities.AllEntityTypes())

	// FalkorDB is optional for the inspection server; the ping endpoint
	// reports its absence.
	var db *falkor.Client
	if client, err := falkor.New(cfg.FalkorAddr(), cfg.FalkorDatabase); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.FalkorAddr()).
			Msg("FalkorDB unreachable, diagnostics ping will report it")
	} else {
		db = client
		defer db.Close()
		logger.Info().Str("addr", cfg.FalkorAddr()).Str("graph", cfg.FalkorDatabase).
			Msg("Connected to FalkorDB")
	}

	srv := server.New(cfg, store, cacheInstance, graphIndex, validator, db, logger)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info().Msg("Shutting down gracefully...")
		store.Close()
		os.Exit(0)
	}()

	logger.Info().Msg("Server ready to accept requests")
	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func printBanner(cfg *config.Config) {
	fmt.Println("//////////////////// graphprobe " + config.Version + " ////////////////////")
	fmt.Println("------------------------------------------------------------")
	fmt.Println("Server Configuration:")
	fmt.Printf("  Host: %s\n", cfg.Host)
	fmt.Printf("  Port: %d\n", cfg.Port)
	fmt.Println()
	fmt.Println("FalkorDB:")
	fmt.Printf("  Address: %s\n", cfg.FalkorAddr())
	fmt.Printf("  Graph: %s\n", cfg.FalkorDatabase)
	fmt.Printf("  Group ID: %s\n", cfg.GroupID)
	fmt.Printf("  Quote style: %s\n", cfg.QuoteStyle)
	fmt.Println()
	fmt.Println("Side Store:")
	fmt.Printf("  Backend: %s\n", cfg.StoreBackend)
	if cfg.StoreBackend == "sqlite" {
		fmt.Printf("  Path: %s\n", cfg.DBPath)
	} else {
		fmt.Printf("  Directory: %s\n", cfg.StoreDir)
	}
	fmt.Println()
	fmt.Println("Cache:")
	fmt.Printf("  Type: %s\n", cfg.CacheType)
	fmt.Printf("  TTL: %d seconds\n", cfg.CacheTTL)
	fmt.Println("------------------------------------------------------------")
	fmt.Println()
}
