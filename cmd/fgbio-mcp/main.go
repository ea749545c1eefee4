package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/prometheus/common/promslog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bamkit/fgbio-mcp/pkg/fgbio"
	"github.com/bamkit/fgbio-mcp/pkg/mcp"
)

func main() {
	// Parse command line flags
	var listen = flag.String("listen", "", "Listen address for HTTP mode (e.g., :9100, 127.0.0.1:8080)")
	var fgbioPath = flag.String("fgbio", "", "Path to the fgbio executable (default: FGBIO_EXE env var or 'fgbio' on PATH)")
	var runTimeout = flag.Duration("run-timeout", fgbio.DefaultRunTimeout, "Maximum duration for a single fgbio invocation")
	var logLevel = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	// Configure slog with specified log level
	configureLogging(*logLevel)

	// Determine the fgbio executable
	runner := fgbio.NewExecRunner(determineFgbioCommand(*fgbioPath))
	runner.RunTimeout = *runTimeout

	// Probe fgbio on startup; this is the one failure that aborts start.
	version, err := runner.CheckAvailable(context.Background())
	if err != nil {
		log.Fatalf("fgbio is not usable: %v", err)
	}
	slog.Info("fgbio available", "command", runner.Command, "version", version)

	// Create MCP server
	mcpServer, err := mcp.NewMCPServer(mcp.Options{Runner: runner})
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	slog.Info("Starting server", "fgbio", runner.Command, "runTimeout", *runTimeout)

	// Choose server mode based on flags
	if *listen != "" {
		// HTTP mode
		ctx := context.Background()
		if err := mcp.Serve(ctx, mcpServer, *listen); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	} else {
		// Start server on stdio (default mode)
		stdioServer := server.NewStdioServer(mcpServer)
		if err := stdioServer.Listen(context.Background(), os.Stdin, os.Stdout); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}
}

// determineFgbioCommand resolves the fgbio executable from the flag, the
// environment, or PATH, in that order.
func determineFgbioCommand(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("FGBIO_EXE"); env != "" {
		return env
	}
	return fgbio.DefaultCommand
}

// configureLogging sets up the slog logger with the specified log level
func configureLogging(levelStr string) {
	level := promslog.NewLevel()
	err := level.Set(levelStr)
	if err != nil {
		log.Fatal(err.Error())
	}

	format := promslog.NewFormat()
	err = format.Set("logfmt")
	if err != nil {
		log.Fatal(err.Error())
	}

	logger := promslog.New(&promslog.Config{
		Level:  level,
		Format: format,
		Style:  promslog.GoKitStyle,
	})
	slog.SetDefault(logger)
}
