package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"papertrader/internal/config"
	"papertrader/internal/engine"
	"papertrader/internal/quote"
	"papertrader/internal/repository"
	"papertrader/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDatabase(ctx, cfg.Database, cfg.Ledger)
	if err != nil {
		logger.Error("connect ledger store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	client := quote.NewClient(cfg.Quotes.BaseURL, cfg.Quotes.APIKey,
		quote.WithTimeout(cfg.Quotes.Timeout),
		quote.WithRetries(cfg.Quotes.MaxRetries, time.Second),
		quote.WithLogger(logger),
	)

	var feed *quote.Feed
	if cfg.Quotes.WSURL != "" {
		feed = quote.NewFeed(quote.FeedConfig{
			URL:    cfg.Quotes.WSURL,
			APIKey: cfg.Quotes.APIKey,
		}, logger)
		feed.Start(ctx)
		defer feed.Stop()
	}
	provider := quote.NewFallbackProvider(feed, client, cfg.Quotes.FeedMaxAge)

	eng := engine.NewEngine(db, provider, cfg.Ledger.StartingCashAmount(), logger)

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(eng, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()

	logger.Info("papertrader listening", "addr", cfg.Server.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
}
