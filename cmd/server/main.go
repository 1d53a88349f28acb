package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ibm-devops/code-engine-welcome/internal/config"
	"github.com/ibm-devops/code-engine-welcome/internal/http/health"
	"github.com/ibm-devops/code-engine-welcome/internal/http/routes"
	"github.com/ibm-devops/code-engine-welcome/internal/message"
	applog "github.com/ibm-devops/code-engine-welcome/internal/platform/logging"
	appmiddleware "github.com/ibm-devops/code-engine-welcome/internal/platform/middleware"
	"github.com/ibm-devops/code-engine-welcome/internal/platform/respond"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const (
	docsPath    = "/api-docs"
	healthPath  = "/health"
	metricsPath = "/metrics"
)

func main() {
	defer func() {
		_ = applog.Sync()
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		applog.LogError(context.Background(), "server failed", err)
		_ = applog.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	metrics, err := appmiddleware.NewMetrics()
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	srv := newServer(cfg, newRouter(cfg, metrics))
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	return serve(ctx, srv, ln, cfg.ShutdownTimeout)
}

func newRouter(cfg *config.Config, metrics *appmiddleware.Metrics) chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(cfg.AllowedOrigins),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For; only safe behind the Code Engine ingress.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20),
		applog.RequestLogger(),
		applog.AccessLogger(),
		metrics.Middleware(metricsPath, healthPath),
		respond.Recoverer(),
	)

	router.Get(healthPath, health.Handler(Version))
	router.Method(http.MethodGet, metricsPath, metrics.Handler())

	humaCfg := huma.DefaultConfig("Code Engine Welcome API", Version)
	humaCfg.DocsPath = docsPath
	api := humachi.New(router, humaCfg)
	routes.Register(api)

	return router
}

func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}
}

// serve runs srv on ln until ctx is cancelled, then shuts down within timeout.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration) error {
	port := ""
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = strconv.Itoa(addr.Port)
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, fmt.Sprintf("%s %s", message.PortMessage(), port),
			zap.String("port", port),
			zap.String("version", Version),
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err, ok := <-listenErr:
		if ok {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		applog.LogInfo(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	applog.LogInfo(ctx, "server exited")
	return nil
}
