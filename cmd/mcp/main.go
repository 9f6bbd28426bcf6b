// Stdio transport for the adapted surface, for MCP clients that spawn the
// adapter as a subprocess instead of connecting over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/zepai/memory-mcp/internal/adapter"
	"github.com/zepai/memory-mcp/internal/backend"
	"github.com/zepai/memory-mcp/internal/config"
	"github.com/zepai/memory-mcp/internal/descriptor"
)

func main() {
	// Logs go to stderr; stdout carries the protocol.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %s\n", err)
		os.Exit(1)
	}

	client := backend.New(cfg.MemoryLayerURL, cfg.MemoryLayerTimeout)
	source := descriptor.NewManifestSource(cfg.ManifestPath)

	descs, err := source.Endpoints()
	if err != nil {
		fmt.Fprintf(os.Stderr, "descriptor source error: %s\n", err)
		os.Exit(1)
	}

	surface, err := adapter.NewBuilder(client, logger).Build(descs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "adapter build error: %s\n", err)
		os.Exit(1)
	}

	mcpServer := adapter.NewMCPServer(cfg.ServerName, cfg.ServerVersion, surface)
	if err := server.ServeStdio(mcpServer); err != nil {
		fmt.Fprintf(os.Stderr, "mcp server error: %s\n", err)
		os.Exit(1)
	}
}
