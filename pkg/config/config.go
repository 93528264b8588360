package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const Version = "0.3.0"

// Config holds application configuration
type Config struct {
	// Inspection server configuration
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// FalkorDB configuration. Port 6380 by default so a stock Redis
	// on 6379 is never hit by accident.
	FalkorHost     string `yaml:"falkor_host"`
	FalkorPort     int    `yaml:"falkor_port"`
	FalkorDatabase string `yaml:"falkor_database"`

	// Side-store configuration
	StoreBackend string `yaml:"store_backend"` // "jsonfile" or "sqlite"
	StoreDir     string `yaml:"store_dir"`
	DBPath       string `yaml:"db_path"` // SQLite database path

	// Cache configuration
	CacheType string `yaml:"cache_type"` // "memory" or "redis"
	CacheTTL  int    `yaml:"cache_ttl"`  // seconds
	CacheSize int    `yaml:"cache_size"`

	// Knowledge-graph client configuration
	GroupID       string `yaml:"group_id"`
	QuoteStyle    string `yaml:"quote_style"` // "single" or "double"
	RetryAttempts int    `yaml:"retry_attempts"`
	RetryBaseMS   int    `yaml:"retry_base_ms"`
	SearchLimit   int    `yaml:"search_limit"`

	// LLM extraction (optional; heuristic extraction when unset)
	OpenAIKey   string `yaml:"openai_key"`
	OpenAIModel string `yaml:"openai_model"`

	// Langfuse trace fetching (optional; fallback data when unset)
	LangfuseHost      string `yaml:"langfuse_host"`
	LangfusePublicKey string `yaml:"langfuse_public_key"`
	LangfuseSecretKey string `yaml:"langfuse_secret_key"`

	// Debug
	Debug bool `yaml:"debug"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Host:           "0.0.0.0",
		Port:           9191,
		FalkorHost:     "localhost",
		FalkorPort:     6380,
		FalkorDatabase: "shared_knowledge_graph",
		StoreBackend:   "jsonfile",
		StoreDir:       "entity_store",
		DBPath:         "entity_store.db",
		CacheType:      "memory",
		CacheTTL:       300,
		CacheSize:      1024,
		GroupID:        "default",
		QuoteStyle:     "single",
		RetryAttempts:  5,
		RetryBaseMS:    200,
		SearchLimit:    10,
		OpenAIModel:    "gpt-4o-mini",
		LangfuseHost:   "http://localhost:3000",
		Debug:          false,
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv(cfg *Config) {
	if val := os.Getenv("HOST"); val != "" {
		cfg.Host = val
	}
	if val := os.Getenv("PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Port = port
		}
	}
	if val := os.Getenv("FALKORDB_HOST"); val != "" {
		cfg.FalkorHost = val
	}
	if val := os.Getenv("FALKORDB_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.FalkorPort = port
		}
	}
	if val := os.Getenv("FALKORDB_DATABASE"); val != "" {
		cfg.FalkorDatabase = val
	}
	if val := os.Getenv("STORE_BACKEND"); val != "" {
		cfg.StoreBackend = val
	}
	if val := os.Getenv("STORE_DIR"); val != "" {
		cfg.StoreDir = val
	}
	if val := os.Getenv("DB_PATH"); val != "" {
		cfg.DBPath = val
	}
	if val := os.Getenv("CACHE_TYPE"); val != "" {
		cfg.CacheType = val
	}
	if val := os.Getenv("CACHE_TTL"); val != "" {
		if ttl, err := strconv.Atoi(val); err == nil {
			cfg.CacheTTL = ttl
		}
	}
	if val := os.Getenv("CACHE_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			cfg.CacheSize = size
		}
	}
	if val := os.Getenv("GROUP_ID"); val != "" {
		cfg.GroupID = val
	}
	if val := os.Getenv("QUOTE_STYLE"); val != "" {
		cfg.QuoteStyle = val
	}
	if val := os.Getenv("RETRY_ATTEMPTS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.RetryAttempts = n
		}
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		cfg.OpenAIKey = val
	}
	if val := os.Getenv("OPENAI_MODEL"); val != "" {
		cfg.OpenAIModel = val
	}
	if val := os.Getenv("LANGFUSE_HOST"); val != "" {
		cfg.LangfuseHost = val
	}
	if val := os.Getenv("LANGFUSE_PUBLIC_KEY"); val != "" {
		cfg.LangfusePublicKey = val
	}
	if val := os.Getenv("LANGFUSE_SECRET_KEY"); val != "" {
		cfg.LangfuseSecretKey = val
	}
	if val := os.Getenv("DEBUG"); val != "" {
		cfg.Debug = parseBool(val)
	}
}

// LoadFromFile overlays configuration from a YAML file. A missing file
// is not an error so deployments can rely on env vars alone.
func LoadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// FalkorAddr returns the backend address in host:port form
func (c *Config) FalkorAddr() string {
	return fmt.Sprintf("%s:%d", c.FalkorHost, c.FalkorPort)
}

// Validate checks enum-valued fields
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case "jsonfile", "sqlite":
	default:
		return fmt.Errorf("invalid store backend: %s", c.StoreBackend)
	}
	switch c.QuoteStyle {
	case "single", "double":
	default:
		return fmt.Errorf("invalid quote style: %s", c.QuoteStyle)
	}
	switch c.CacheType {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid cache type: %s", c.CacheType)
	}
	return nil
}

func parseBool(val string) bool {
	val = strings.ToLower(val)
	return val == "true" || val == "1" || val == "yes"
}
