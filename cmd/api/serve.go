package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/chatrelay/internal/app"
	"github.com/mandalnilabja/chatrelay/internal/config"
	"github.com/mandalnilabja/chatrelay/internal/prompt"
	"github.com/mandalnilabja/chatrelay/internal/provider/gateway"
	"github.com/mandalnilabja/chatrelay/internal/storage"
	"github.com/mandalnilabja/chatrelay/internal/tokenizer"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/chat"
	"github.com/mandalnilabja/chatrelay/internal/transport/http/middleware/auth"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat proxy server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.EnsureDataDir(); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := config.EnsureConfigFile(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	cfg := config.Load()
	logger := setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		// Keep serving; chat requests report the error to the caller
		logger.Warn("chat endpoint is not configured", "error", err)
	}

	systemPrompt, err := prompt.Load(cfg.SystemPromptFile)
	if err != nil {
		return err
	}

	var store storage.Storage
	if cfg.EnableUsageLog {
		store, err = storage.NewSQLiteStorage(config.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open usage log: %w", err)
		}
		defer store.Close()
	}

	repo := handler.NewRepo(chat.Options{
		Config:       cfg,
		SystemPrompt: systemPrompt,
		Provider:     gateway.New(cfg.UpstreamURL),
		Storage:      store,
		Tokenizer:    tokenizer.New(),
		Logger:       logger,
	})
	// Flush pending usage records before the store closes
	defer repo.Chat.Wait()

	routerOpts := &app.RouterOptions{
		Logger:         logger,
		AdminTokenHash: cfg.AdminTokenHash,
	}
	if cfg.AdminEnabled() {
		cache, err := auth.NewTokenCache()
		if err != nil {
			return fmt.Errorf("failed to create token cache: %w", err)
		}
		defer cache.Close()
		routerOpts.TokenCache = cache
	}

	printStartupBanner(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := app.NewServer(cfg, app.NewRouter(repo, routerOpts), logger)
	return srv.Run(ctx)
}
