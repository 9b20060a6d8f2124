package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 1 << 20
	serverPortDefault         = 8080

	portFlagName = "port"
)

func newServerCmd() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start local HTTP JSON API",
		Action:  cmdStartServer,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  portFlagName,
				Usage: "Port on which the server will listen",
				Value: serverPortDefault,
			},
		},
	}
}

func cmdStartServer(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	port := int(cmd.Int(portFlagName))
	address := fmt.Sprintf("127.0.0.1:%d", port)

	s := newHTTPServer(ctx, cfg, address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("server started", "address", fmt.Sprintf("http://%s", address))

	select {
	case <-done:
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("error starting server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	slog.Info("server stopped")
	return nil
}

func newHTTPServer(ctx context.Context, cfg *appConfig, address string) *http.Server {
	return &http.Server{
		Addr:           address,
		Handler:        makeRouter(cfg),
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: serverMaxHeaderBytes,
		BaseContext:    func(_ net.Listener) context.Context { return ctx },
	}
}

func makeRouter(cfg *appConfig) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/score", scoreAPIHandler(cfg))
	mux.HandleFunc("GET /api/match", matchAPIHandler(cfg))
	mux.HandleFunc("GET /api/alternatives", alternativesAPIHandler(cfg))
	mux.HandleFunc("GET /api/history", historyListAPIHandler(cfg))
	mux.HandleFunc("GET /api/history/{id}", historyGetAPIHandler(cfg))
	mux.HandleFunc("GET /api/state", stateAPIHandler(cfg))

	return mux
}
