package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/esimov/spraycan/websocket"
)

const shutdownTimeout = 5 * time.Second

// DefaultParams returns the address and file root the viewer is served on
// when no flags override them.
func DefaultParams() websocket.HttpParams {
	return websocket.HttpParams{
		Address: "localhost:5000",
		Prefix:  "/",
	}
}

// InitServer serves the hub's viewer page and websocket endpoint until ctx
// is done, then shuts the server down gracefully.
func InitServer(ctx context.Context, p websocket.HttpParams, hub *websocket.Hub, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", p.Address)
	if err != nil {
		return err
	}
	return Serve(ctx, ln, p, hub, logger)
}

// Serve is InitServer on an already open listener. The listener is closed
// when Serve returns.
func Serve(ctx context.Context, ln net.Listener, p websocket.HttpParams, hub *websocket.Hub, logger *slog.Logger) error {
	handler, err := hub.Handler(p)
	if err != nil {
		ln.Close()
		return err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("serving viewer", "addr", "http://"+ln.Addr().String()+p.Prefix)
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	hub.Close()
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
