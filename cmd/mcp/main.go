package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/OFFIS-RIT/docvis/internal/mcptools"
	"github.com/OFFIS-RIT/docvis/internal/pipeline"
	"github.com/OFFIS-RIT/docvis/internal/storage"
	"github.com/OFFIS-RIT/docvis/internal/util"
	"github.com/OFFIS-RIT/docvis/pkg/logger"
	"github.com/OFFIS-RIT/docvis/pkg/logger/console"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	transport := flag.String("transport", "stdio", "Transport mode: stdio or http")
	addr := flag.String("addr", ":8081", "Listen address (only used with --transport http)")
	flag.Parse()

	util.LoadEnv()
	cfg := util.LoadConfig()

	// stdout carries the protocol, logs go to stderr
	consoleLogger := console.New(console.Options{
		Debug:  cfg.Debug,
		Format: cfg.LogFormat,
		Prefix: "mcp",
		Output: os.Stderr,
	})
	logger.Init(consoleLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var s3Client *s3.Client
	if cfg.S3Enabled() {
		client, err := storage.NewS3Client(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to create s3 client", "err", err)
		}
		s3Client = client
	}

	p, err := pipeline.FromConfig(ctx, cfg, s3Client)
	if err != nil {
		logger.Fatal("Failed to set up pipeline", "err", err)
	}
	defer p.Close()

	srv := mcptools.New(p, version)

	switch *transport {
	case "stdio":
		logger.Info("MCP server starting", "transport", "stdio", "ai", p.AIEnabled())
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			logger.Error("Server error", "err", err)
		}
	case "http":
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return srv
		}, nil)
		httpServer := &http.Server{Addr: *addr, Handler: handler}
		go func() {
			<-ctx.Done()
			httpServer.Close()
		}()
		logger.Info("MCP server listening", "addr", *addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "err", err)
		}
	default:
		logger.Fatal("Unknown transport, use stdio or http", "transport", *transport)
	}
}
