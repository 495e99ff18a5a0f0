package mcpsrv

import (
	"context"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/ktrend/logging"
)

func NewHandler(server *mcp.Server, opts *mcp.StreamableHTTPOptions) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, opts)
}

// NewMux serves the MCP endpoint at /mcp behind WrapMCPHandler, plus an
// unauthenticated /healthz.
func NewMux(server *mcp.Server, cfg Config) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/mcp", WrapMCPHandler(NewHandler(server, StreamableOptions(cfg)), cfg))
	return mux
}

// StartCacheJanitor clears the source cache every interval until ctx is
// done. It does nothing if the source has no cache or interval is not
// positive.
func StartCacheJanitor(ctx context.Context, source any, interval time.Duration) {
	clearable, ok := source.(cacheClearSource)
	if !ok || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				clearable.ClearCache()
				logging.Debug("cache cleared", "via", "janitor")
			case <-ctx.Done():
				return
			}
		}
	}()
}
