package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/enzocage/Notion-Mediator/internal/server"
	"github.com/enzocage/Notion-Mediator/internal/tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

func newMCPCmd() *cobra.Command {
	var (
		transport string
		httpAddr  string
		httpPath  string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose the document tools over the Model Context Protocol",
		Long: `Expose the document tools of every configured mode as an MCP server, so an
external assistant can read and edit the configured Notion pages and Google
Docs without going through the planner.

Transports:
  stdio            JSON-RPC over standard input and output (default)
  streamable-http  MCP streamable HTTP on --http-addr and --http-path`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch transport {
			case transportStdio, transportStreamableHTTP:
			default:
				return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)", transport, transportStdio, transportStreamableHTTP)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				a.close(closeCtx)
			}()

			mcpSrv, err := newMCPServer(a.resolver)
			if err != nil {
				return err
			}
			if transport == transportStdio {
				return serveMCPStdio(ctx, mcpSrv)
			}
			return serveMCPHTTP(ctx, mcpSrv, httpAddr, httpPath)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "Listen address for the streamable-http transport")
	cmd.Flags().StringVar(&httpPath, "http-path", "/mcp", "Endpoint path for the streamable-http transport")

	return cmd
}

func newMCPServer(resolver *tools.Resolver) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("mediator", version,
		mcpserver.WithToolCapabilities(false),
	)
	if err := tools.RegisterMCPTools(mcpSrv, resolver); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	return mcpSrv, nil
}

// serveMCPStdio serves until stdin is closed or ctx is canceled.
func serveMCPStdio(ctx context.Context, mcpSrv *mcpserver.MCPServer) error {
	slog.Debug("serving MCP", "transport", transportStdio)
	err := mcpserver.NewStdioServer(mcpSrv).Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server stopped with error: %w", err)
	}
	return nil
}

// serveMCPHTTP mounts the streamable HTTP transport on its own listener and
// serves until ctx is canceled.
func serveMCPHTTP(ctx context.Context, mcpSrv *mcpserver.MCPServer, addr, path string) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Any(path, echo.WrapHandler(mcpserver.NewStreamableHTTPServer(mcpSrv, mcpserver.WithEndpointPath(path))))

	srv := server.NewAPIServer(e, addr)
	done := make(chan error, 1)
	go func() {
		slog.Info("serving MCP", "transport", transportStreamableHTTP, "addr", addr, "path", path)
		done <- srv.Start()
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("MCP server stopped with error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received, stopping MCP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown MCP server: %w", err)
	}
	return nil
}
