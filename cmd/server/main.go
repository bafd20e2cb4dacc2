// Package main - Entry point for the commission API server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"commission-calc/adapters/binlist"
	"commission-calc/adapters/exchangerate"
	"commission-calc/api"
	"commission-calc/core/batch"
	"commission-calc/core/commission"
	"commission-calc/core/rates"
	"commission-calc/internal/config"
	"commission-calc/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "config file, JSON or .hcl")
	addr := flag.String("addr", "", "server address, overrides server.address")
	flag.Parse()

	if err := run(*cfgPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "commission-server: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, addr string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if addr != "" {
		cfg.Server.Address = addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}

	var provider rates.Provider = exchangerate.New(cfg.ExchangeRateConfig())
	if cfg.Rates.File != "" {
		if provider, err = rates.LoadFile(cfg.Rates.File); err != nil {
			return err
		}
	}
	rateCache := rates.NewCache(provider)
	processor := batch.NewProcessor(commission.NewEngine(engineCfg), binlist.New(cfg.BinlistConfig()), rateCache)

	router := chi.NewRouter()
	router.Mount("/api", api.NewServer(version, processor, rateCache, cfg.Server.MaxBodyBytes))

	server := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     router,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info("commission API listening", zap.String("addr", server.Addr), zap.String("version", version))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.Error("commission API stopped", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logging.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}
