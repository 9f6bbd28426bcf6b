package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port          int
	ServerName    string
	ServerVersion string
	// Memory-layer backend
	MemoryLayerURL     string
	MemoryLayerTimeout time.Duration
	// Adapted surface
	MCPPrefix     string
	ManifestPath  string
	FormatContext bool
	// Limits
	MaxSearchResults int
	MaxTextLength    int
	LogLevel         string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               envInt("PORT", 8002),
		ServerName:         envStr("SERVER_NAME", "ZepAI Memory Layer"),
		ServerVersion:      envStr("SERVER_VERSION", "2.0.0"),
		MemoryLayerURL:     envStr("MEMORY_LAYER_URL", "http://localhost:8000"),
		MemoryLayerTimeout: time.Duration(envInt("MEMORY_LAYER_TIMEOUT", 30)) * time.Second,
		MCPPrefix:          envStr("MCP_PREFIX", "/mcp"),
		ManifestPath:       envStr("MANIFEST_PATH", ""),
		FormatContext:      envBool("FORMAT_CONTEXT", false),
		MaxSearchResults:   envInt("MAX_SEARCH_RESULTS", 50),
		MaxTextLength:      envInt("MAX_TEXT_LENGTH", 100000),
		LogLevel:           envStr("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.MemoryLayerURL == "" {
		return fmt.Errorf("MEMORY_LAYER_URL must not be empty")
	}
	if !strings.HasPrefix(c.MCPPrefix, "/") || c.MCPPrefix == "/" {
		return fmt.Errorf("MCP_PREFIX must be a non-root path, got %q", c.MCPPrefix)
	}
	if c.MemoryLayerTimeout < time.Second {
		return fmt.Errorf("MEMORY_LAYER_TIMEOUT must be at least 1 second")
	}
	if c.MaxSearchResults < 1 {
		return fmt.Errorf("MAX_SEARCH_RESULTS must be positive, got %d", c.MaxSearchResults)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}
