package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/ktrend/client"
	"github.com/qyinm/ktrend/logging"
	"github.com/qyinm/ktrend/mcpsrv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := mcpsrv.LoadConfig()
	// stdout carries the protocol; logs go to stderr.
	logging.InitWriter(os.Stderr, cfg.Debug)

	source := client.New(cfg.Client)
	server := mcpsrv.NewServer(source, "dev", &mcpsrv.ServerOptions{
		EnableAdmin: cfg.EnableAdmin,
	})

	mcpsrv.StartCacheJanitor(ctx, source, cfg.CacheClearInterval)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		logging.Error("stdio mcp server failed", "err", err)
		os.Exit(1)
	}
}
