package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/qyinm/ktrend/client"
	"github.com/qyinm/ktrend/logging"
	"github.com/qyinm/ktrend/mcpsrv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := mcpsrv.LoadConfig()
	logging.InitWriter(os.Stderr, cfg.Debug)

	source := client.New(cfg.Client)
	server := mcpsrv.NewServer(source, "dev", &mcpsrv.ServerOptions{
		EnableAdmin: cfg.AdminEnabled(),
	})
	if cfg.EnableAdmin && !cfg.AdminEnabled() {
		logging.Warn("admin tools disabled: KTREND_MCP_API_KEY is not set")
	}

	mcpsrv.StartCacheJanitor(ctx, source, cfg.CacheClearInterval)

	httpServer := &http.Server{
		Addr:              ":" + strings.TrimSpace(cfg.Port),
		Handler:           mcpsrv.NewMux(server, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("shutdown error", "err", err)
		}
	}()

	logging.Info("ktrend-mcp listening", "addr", httpServer.Addr, "backend", source.BaseURL())
	err := httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error("server failed", "err", err)
		os.Exit(1)
	}
}
