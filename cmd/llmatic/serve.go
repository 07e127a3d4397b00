package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/llmatic/internal/domain/tracking"
	"github.com/rpggio/llmatic/internal/mcp"
	"github.com/rpggio/llmatic/internal/transport"
	"github.com/spf13/cobra"
)

var (
	serveTransport string
	serveHost      string
	servePort      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tracking queries over MCP",
	Long: `Serve the read and delete operations of the tracking store as MCP tools,
over stdio (the default) or streamable HTTP.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		mode := a.cfg.Transport.Mode
		if cmd.Flags().Changed("transport") {
			mode = serveTransport
		}
		host, port := a.cfg.Server.Host, a.cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		server := mcp.NewServer(mcp.Config{
			Services: mcp.Services{Projects: a.projects, Activity: a.activity},
			Version:  Version,
			Logger:   a.logger,
		})

		switch mode {
		case "stdio":
			return runStdioMode(ctx, a.logger, server)
		case "http":
			return runHTTPMode(ctx, a.logger, server, host, port, a.cfg.Server.Token)
		default:
			return fmt.Errorf("%w: unknown transport %q (want stdio or http)", tracking.ErrInvalidArgument, mode)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "stdio", "transport mode: stdio or http")
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "HTTP listen host")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP listen port")
	rootCmd.AddCommand(serveCmd)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or ctx is canceled
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server, host string, port int, token string) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: transport.NewRouter(server, transport.TokenAuth(token)),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "auth", token != "")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	return waitForShutdown(logger, httpServer)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
