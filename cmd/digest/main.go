package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lingua-hq/lingua-digest/internal/app"
	"github.com/lingua-hq/lingua-digest/internal/config"
	"github.com/lingua-hq/lingua-digest/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "digest start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("digest starting", "config", map[string]any{
		"app_env":         cfg.Env,
		"catalog_file":    cfg.CatalogFile,
		"publishers_file": cfg.PublishersFile,
		"window_hours":    cfg.WindowHours,
		"target_language": cfg.TargetLanguage,
		"llm_model":       cfg.LLMModel,
		"schedule":        cfg.Schedule,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runtime, err := app.New(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize runtime", "error", err)
		return err
	}

	if err := runtime.Run(ctx); err != nil {
		return fmt.Errorf("digest run: %w", err)
	}

	return nil
}
