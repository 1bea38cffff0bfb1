package main

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

	"golang.org/x/sync/errgroup"

	"github.com/nstehr/ruck/ruck-core/config"
	"github.com/nstehr/ruck/ruck-core/ipc"
	"github.com/nstehr/ruck/ruck-core/rules"
	"github.com/nstehr/ruck/ruck-core/session"
	"github.com/nstehr/ruck/ruck-core/spectate"
	"github.com/nstehr/ruck/ruck-core/telemetry"
)

const banner = `
██████╗ ██╗   ██╗ ██████╗██╗  ██╗
██╔══██╗██║   ██║██╔════╝██║ ██╔╝
██████╔╝██║   ██║██║     █████╔╝
██╔══██╗██║   ██║██║     ██╔═██╗
██║  ██║╚██████╔╝╚██████╗██║  ██╗
╚═╝  ╚═╝ ╚═════╝  ╚═════╝╚═╝  ╚═╝

Server-Authoritative Rugby Match Engine`

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint, cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	// Rules are compiled once and shared; evaluation is read-only.
	referee, err := rules.NewEngine(rules.DefaultRules())
	if err != nil {
		return fmt.Errorf("compile referee rules: %w", err)
	}

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	slog.Info("starting ruck", "addr", listener.Addr().String(), "seed", cfg.MatchSeed)

	hub := spectate.NewHub(slog.Default())
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		return listener.Close()
	})

	g.Go(func() error {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				if errors.Is(err, net.ErrClosed) {
					return err
				}
				slog.Error("failed to accept connection", "error", err)
				continue
			}
			slog.Info("new connection accepted", "remote", conn.RemoteAddr().String())
			go handleConn(conn, cfg, referee, hub)
		}
	})

	if cfg.SpectateAddr != "" {
		srv := &http.Server{
			Addr:              cfg.SpectateAddr,
			Handler:           spectate.Handler(hub),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			slog.Info("spectator feed listening", "addr", cfg.SpectateAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("spectator server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func handleConn(conn net.Conn, cfg config.Config, referee *rules.Engine, hub *spectate.Hub) {
	c := ipc.NewConnection(conn, nil)
	s, err := session.New(c, session.Config{
		Seed:      cfg.MatchSeed,
		Referee:   referee,
		Publisher: hub,
		Tracer:    telemetry.Tracer(),
	})
	if err != nil {
		slog.Error("failed to start session", "error", err)
		c.Close()
		return
	}
	defer s.Close()

	c.RegisterHandler(ipc.TypeInit, s.HandleInit)
	c.RegisterHandler(ipc.TypeTick, s.HandleTick)
	c.ReadLoop()
}
