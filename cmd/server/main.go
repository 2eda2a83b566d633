// Package main provides the combat server: it wires together configuration,
// rule content, the HTTP API, and the websocket event stream.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Zycke/star-mercs/internal/config"
	"github.com/Zycke/star-mercs/internal/game/dice"
	"github.com/Zycke/star-mercs/internal/game/rules"
	"github.com/Zycke/star-mercs/internal/game/trait"
	"github.com/Zycke/star-mercs/internal/observability"
	"github.com/Zycke/star-mercs/internal/server"
	"github.com/Zycke/star-mercs/internal/web"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// Initialize logger
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting star-mercs combat server",
		zap.String("addr", cfg.Server.Addr()),
	)

	// Load rule content
	ruleCfg, err := loadRules(cfg.Rules, logger)
	if err != nil {
		logger.Fatal("loading rules", zap.Error(err))
	}

	// Build the HTTP surface
	api := web.NewServer(cfg.Game, ruleCfg, dice.NewCryptoSource(), logger)
	if cfg.Rules.TraitsDir != "" {
		registry, err := trait.LoadDirectory(cfg.Rules.TraitsDir)
		if err != nil {
			logger.Fatal("loading traits", zap.Error(err))
		}
		api.SetTraitRegistry(registry)
		logger.Info("traits loaded", zap.String("dir", cfg.Rules.TraitsDir))
	}
	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("http", &server.FuncService{
		StartFn: func() error {
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
		StopFn: func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGracePeriod)
			defer cancel()
			if err := httpSrv.Shutdown(ctx); err != nil {
				logger.Warn("http shutdown", zap.Error(err))
			}
		},
	})

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}
}

// loadRules builds the rules table from the configured content directories,
// falling back to the built-in order table when none is configured.
func loadRules(rc config.RulesConfig, logger *zap.Logger) (*rules.Config, error) {
	if rc.OrdersDir == "" {
		logger.Info("using built-in order table")
		return rules.Default(), nil
	}

	start := time.Now()
	orders, err := rules.LoadOrdersDirectory(rc.OrdersDir)
	if err != nil {
		return nil, err
	}
	logger.Info("orders loaded",
		zap.String("dir", rc.OrdersDir),
		zap.Int("orders", len(orders.All())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return rules.NewConfig(orders), nil
}
