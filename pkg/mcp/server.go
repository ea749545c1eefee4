package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bamkit/fgbio-mcp/pkg/fgbio"
)

// Options contains configuration options for the MCP server
type Options struct {
	// Runner executes fgbio tools. Initialized and availability-checked
	// once by the entry point, then shared read-only by all handlers.
	Runner fgbio.Runner
}

const (
	mcpEndpoint            = "/mcp"
	healthEndpoint         = "/health"
	serverName             = "fgbio-mcp"
	serverVersion          = "1.0.0"
	defaultShutdownTimeout = 10 * time.Second

	serverInstructions = `You are working with fgbio BAM manipulation tools through this MCP server.

## AVAILABLE TOOLS

- **sort_bam**: Sort a BAM file by coordinate (default), queryname, random, or unsorted order.
- **filter_bam**: Remove reads that are not useful downstream: duplicates, unmapped reads, low mapping quality, secondary alignments, insert-size outliers.

## RULES

1. **Always pass absolute file paths** - the server validates that input files exist and output directories are writable before running fgbio.
2. **Do not guess paths** - if the user has not named a file, ask for it.
3. **Check the success flag** - every response carries success, a message, and the executed command; on failure the message explains what went wrong.
4. **Sorting before filtering is not required** - fgbio FilterBam accepts BAMs in any order, but downstream tools usually want coordinate-sorted output.`
)

func NewMCPServer(opts Options) (*server.MCPServer, error) {
	if opts.Runner == nil {
		return nil, errors.New("mcp: no fgbio runner configured")
	}

	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithLogging(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	SetupTools(mcpServer, opts)

	return mcpServer, nil
}

func SetupTools(mcpServer *server.MCPServer, opts Options) {
	// Create tool definitions
	sortBamTool := CreateSortBamTool()
	filterBamTool := CreateFilterBamTool()

	// Create handlers bound to the injected runner
	sortBamHandler := SortBamHandler(opts.Runner)
	filterBamHandler := FilterBamHandler(opts.Runner)

	// Add tools to server
	mcpServer.AddTool(sortBamTool, sortBamHandler)
	mcpServer.AddTool(filterBamTool, filterBamHandler)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Incoming request", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)
		slog.Debug("Request headers", "headers", r.Header)
		next.ServeHTTP(w, r)
	})
}

func Serve(ctx context.Context, mcpServer *server.MCPServer, listenAddr string) error {
	mux := http.NewServeMux()

	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: loggingMiddleware(mux),
	}

	streamableHTTPServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStreamableHTTPServer(httpServer),
		server.WithStateLess(true),
	)
	mux.Handle(mcpEndpoint, streamableHTTPServer)

	mux.Handle("/", streamableHTTPServer)

	mux.HandleFunc(healthEndpoint, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "listen_addr", listenAddr, "mcp_endpoint", mcpEndpoint)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-sigChan:
		slog.Warn("Received signal, initiating graceful shutdown", "signal", sig)
		cancel()
	case <-ctx.Done():
		slog.Warn("Context cancelled, initiating graceful shutdown")
	case err := <-serverErr:
		slog.Error("HTTP server error", "error", err)
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer shutdownCancel()

	slog.Info("Shutting down HTTP server gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
		return err
	}

	slog.Info("HTTP server shutdown complete")
	return nil
}
