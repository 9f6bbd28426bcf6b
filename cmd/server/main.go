package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/zepai/memory-mcp/internal/adapter"
	"github.com/zepai/memory-mcp/internal/backend"
	"github.com/zepai/memory-mcp/internal/compose"
	"github.com/zepai/memory-mcp/internal/config"
	"github.com/zepai/memory-mcp/internal/descriptor"
	"github.com/zepai/memory-mcp/internal/format"
)

func main() {
	// Logger
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Backend client + original-surface passthrough
	client := backend.New(cfg.MemoryLayerURL, cfg.MemoryLayerTimeout)
	backendURL, err := url.Parse(cfg.MemoryLayerURL)
	if err != nil {
		logger.Error("invalid MEMORY_LAYER_URL", "error", err)
		os.Exit(1)
	}
	original := httputil.NewSingleHostReverseProxy(backendURL)

	// Descriptor source
	source := descriptor.NewManifestSource(cfg.ManifestPath)

	// Adapter
	opts := []adapter.Option{
		adapter.WithMaxBodyBytes(cfg.MaxTextLength),
		adapter.WithDefaultArgs(searchDefaults(cfg.MaxSearchResults)),
	}
	if cfg.FormatContext {
		opts = append(opts, adapter.WithFormatter(searchFormatter))
	}
	builder := adapter.NewBuilder(client, logger, opts...)

	table, err := buildTable(cfg, builder, source, original, logger)
	if err != nil {
		logger.Error("failed to build adapted surface", "error", err)
		os.Exit(1)
	}
	composite := compose.NewServer(table)

	if err := client.HealthCheck(context.Background()); err != nil {
		logger.Warn("memory layer not reachable at startup, forwarding will retry per request", "error", err)
	}

	// Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      compose.Wrap(composite, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// SIGHUP rebuilds the surface from the manifest and swaps the routing
	// table atomically; in-flight requests keep the old table.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			newTable, err := buildTable(cfg, builder, source, original, logger)
			if err != nil {
				logger.Error("reload failed, keeping current surface", "error", err)
				continue
			}
			composite.Reload(newTable)
			logger.Info("adapted surface reloaded")
		}
	}()

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("memory mcp adapter starting",
			"addr", addr,
			"mcp_prefix", cfg.MCPPrefix,
			"backend", cfg.MemoryLayerURL,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("server stopped")
}

// buildTable assembles the full pipeline: descriptors -> adapted surface ->
// MCP streamable transport -> composite routing table.
func buildTable(
	cfg *config.Config,
	builder *adapter.Builder,
	source descriptor.Source,
	original http.Handler,
	logger *slog.Logger,
) (*compose.Table, error) {
	descs, err := source.Endpoints()
	if err != nil {
		return nil, err
	}

	surface, err := builder.Build(descs)
	if err != nil {
		return nil, err
	}
	logger.Info("adapted surface built",
		"tools", len(surface.Tools),
		"resources", len(surface.Resources),
		"resource_templates", len(surface.Templates),
		"excluded", len(surface.Excluded),
	)

	mcpServer := adapter.NewMCPServer(cfg.ServerName, cfg.ServerVersion, surface)
	adapted := server.NewStreamableHTTPServer(mcpServer, server.WithStateLess(true))

	paths := make([]string, 0, len(descs))
	for _, d := range descs {
		paths = append(paths, d.Path)
	}
	return compose.Compose(adapted, cfg.MCPPrefix, original, paths)
}

// searchFormatter rewrites search responses into agent context text; other
// endpoints pass through raw.
func searchFormatter(d descriptor.Descriptor, body []byte) (string, bool) {
	if !isSearch(d) {
		return "", false
	}
	return format.AgentContext(body)
}

// searchDefaults caps result counts on search calls that don't set one.
func searchDefaults(maxResults int) adapter.DefaultArgsFunc {
	return func(d descriptor.Descriptor) map[string]any {
		if !isSearch(d) {
			return nil
		}
		return map[string]any{"max_results": maxResults}
	}
}

func isSearch(d descriptor.Descriptor) bool {
	return d.Path == "/search" || d.Path == "/search/code"
}
