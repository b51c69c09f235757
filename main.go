package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lachlan2k/sesame/internal/config"
	"github.com/lachlan2k/sesame/internal/webserver"
)

func main() {
	confPath := flag.String("config", "config.toml", "Path to config file (optional, environment variables override it)")
	flag.Parse()

	server := webserver.New()
	logger := server.Logger()

	conf, err := config.Load(*confPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, conf); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}
