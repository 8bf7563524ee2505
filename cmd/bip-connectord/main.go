package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bip-connector/internal/api"
	"bip-connector/internal/bip"
	"bip-connector/internal/config"
	"bip-connector/internal/logger"
	"bip-connector/internal/store"
)

func main() {
	bootstrapLog := logger.NewStderr()

	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			bootstrapLog.Error("config not found; create it with `bipctl init`", nil)
			os.Exit(1)
		}
		bootstrapLog.Error("failed to load config", err)
		os.Exit(1)
	}

	logSvc, err := logger.New(cfg)
	if err != nil {
		bootstrapLog.Error("logger init failed; using stderr", err)
		logSvc = bootstrapLog
	}
	defer logSvc.Close()

	storePath, err := config.ResolveStorePath(cfg)
	if err != nil {
		logSvc.Error("cannot resolve store path", err)
		os.Exit(1)
	}
	st, err := store.Open(storePath)
	if err != nil {
		logSvc.Error("store open failed", err)
		os.Exit(1)
	}
	defer st.Close()

	srv, err := api.NewServer(cfg, api.ServerDeps{
		Store:    st,
		Executor: bip.NewClient(nil),
		Logger:   logSvc,
	})
	if err != nil {
		logSvc.Error("config validation error", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logSvc.Info(fmt.Sprintf("bip-connectord listening on %s", srv.Addr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logSvc.Error("server stopped", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logSvc.Info(fmt.Sprintf("shutdown signal: %s", sig))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logSvc.Error("shutdown error", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			logSvc.Error("server stopped", err)
			os.Exit(1)
		}
	}
}
