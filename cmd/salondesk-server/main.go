package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	salondeskv1 "salondesk/backend/internal/api/salondesk/v1"
	"salondesk/backend/internal/config"
	"salondesk/backend/internal/metrics"
	"salondesk/backend/internal/service/sessions"
	"salondesk/backend/internal/store/postgres"
	"salondesk/backend/internal/transport/admin"
	grpcTransport "salondesk/backend/internal/transport/grpc"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "salondesk-server"),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "salondesk-server"),
	)
	slog.SetDefault(log)

	log.Info("starting",
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("admin_addr", cfg.AdminAddr),
		slog.String("log_level", cfg.LogLevel),
		slog.String("calendar_location", cfg.Location.String()),
		slog.Int("slot_minutes", cfg.SlotMinutes),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:       cfg.DBMaxOpenConns,
		MaxIdleConns:       cfg.DBMaxIdleConns,
		ConnMaxLifetime:    cfg.DBConnMaxLifetime,
		ConnMaxIdleTime:    cfg.DBConnMaxIdleTime,
		ConnectTimeout:     cfg.DBConnectTimeout,
		SlowQueryThreshold: cfg.DBSlowQuery,
	}, log)
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		os.Exit(1)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		postgres.StatsCollector(db),
	)
	collector := metrics.NewCollector(reg, "salondesk")

	catalog := postgres.NewCatalogRepo(db)
	svc := sessions.NewService(postgres.NewAppointmentRepo(db), catalog, sessions.Config{
		SlotMinutes: cfg.SlotMinutes,
		Location:    cfg.Location,
		IdleTimeout: cfg.SessionIdleTimeout,
	}, log, collector)

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpcTransport.MetricsInterceptor(collector),
			grpcTransport.DefaultRequestTimeoutInterceptor(cfg.GRPCRequestTimeout),
		),
	)
	salondeskv1.RegisterCalendarServiceServer(grpcServer, grpcTransport.NewCalendarServer(svc, log))

	adminServer := &http.Server{
		Addr:              cfg.AdminAddr,
		Handler:           admin.NewRouter(catalog, svc, metrics.Handler(reg), log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("grpc server started", slog.String("grpc_addr", cfg.GRPCAddr()))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("admin server started", slog.String("admin_addr", cfg.AdminAddr))
		if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return svc.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			log.Info("shutdown signal received")
		}
		shutdown(log, grpcServer, adminServer, cfg.ShutdownTimeout)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("server stopped")
}

func shutdown(log *slog.Logger, s *grpc.Server, adminServer *http.Server, timeout time.Duration) {
	log.Info("shutting down servers", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := adminServer.Shutdown(ctx); err != nil {
		log.Warn("admin server shutdown failed", slog.Any("err", err))
	}

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-ctx.Done():
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		s.Stop()
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
