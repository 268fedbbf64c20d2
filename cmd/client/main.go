package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/entrust/internal/client/cli"
	"github.com/dmitrijs2005/entrust/internal/client/config"
	"github.com/dmitrijs2005/entrust/internal/logging"
)

func main() {

	cfg := config.LoadConfig()

	logger, err := logging.NewConsoleZapLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logger.Sync() }()

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	app.Run(ctx)

}
