package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/OFFIS-RIT/docvis/internal/server"
	"github.com/OFFIS-RIT/docvis/internal/util"
	"github.com/OFFIS-RIT/docvis/pkg/logger"
	"github.com/OFFIS-RIT/docvis/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()
	cfg := util.LoadConfig()

	consoleLogger := console.New(console.Options{
		Debug:  cfg.Debug,
		Format: cfg.LogFormat,
		Prefix: "server",
	})
	logger.Init(consoleLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.Init(ctx, cfg)
}
