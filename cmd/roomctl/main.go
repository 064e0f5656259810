package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peregovorka/internal/client"
	"peregovorka/internal/config"
	"peregovorka/internal/console"
	"peregovorka/internal/logging"
	"peregovorka/internal/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	apiClient := client.New(cfg.Client.BaseURL, time.Duration(cfg.Client.Timeout)*time.Second)

	// Тот же redis, что и у сервера, если он настроен и доступен.
	if cfg.Redis.Address != "" {
		redisClient := session.NewRedisClient(cfg.Redis)
		if err := session.Ping(context.Background(), redisClient); err != nil {
			logger.Debug().Err(err).Msg("redis unavailable, room cache disabled")
			redisClient.Close()
		} else {
			apiClient.UseRedisCache(redisClient, time.Minute)
			defer redisClient.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui := console.New(apiClient, os.Stdin, os.Stdout, cfg.Client.TokenFile, cfg.Exports.Path, *logger)
	ui.Restore(ctx)
	if err := ui.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
