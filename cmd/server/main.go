// Command tk-server starts the TaskKeeper gRPC server.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/and161185/task-keeper/internal/api"
	"github.com/and161185/task-keeper/internal/config"
	"github.com/and161185/task-keeper/internal/crypto"
	"github.com/and161185/task-keeper/internal/logging"
	"github.com/and161185/task-keeper/internal/migrate"
	"github.com/and161185/task-keeper/internal/repository"
	"github.com/and161185/task-keeper/internal/repository/postgres"
	"github.com/and161185/task-keeper/internal/repository/sqlite"
	grpcserver "github.com/and161185/task-keeper/internal/server/grpc"
	"github.com/and161185/task-keeper/internal/service"
	"github.com/and161185/task-keeper/internal/telemetry"
	"github.com/and161185/task-keeper/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// storage is the selected backend behind the repository interfaces.
type storage struct {
	users repository.UserRepository
	tasks repository.TaskRepository
	close func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (*storage, error) {
	switch cfg.DBDriver {
	case migrate.Postgres:
		db, err := postgres.Open(ctx, cfg.DSN, log)
		if err != nil {
			return nil, err
		}
		return &storage{users: postgres.NewUserRepo(db), tasks: postgres.NewTaskRepo(db), close: db.Close}, nil
	case migrate.SQLite:
		st, err := sqlite.Open(ctx, cfg.DSN, log)
		if err != nil {
			return nil, err
		}
		return &storage{users: sqlite.NewUserRepo(st), tasks: sqlite.NewTaskRepo(st), close: func() { _ = st.Close() }}, nil
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
}

// main loads configuration and logging, then hands over to run. It exits once,
// after every deferred cleanup in run has finished.
func main() {
	cfg, err := config.Load(os.Args[1:], env.ToMap(os.Environ()))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run opens storage, serves gRPC until ctx is cancelled and releases every
// resource it acquired before returning.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.String("db", cfg.DBDriver),
	)

	shutdownTracing, err := telemetry.Setup(ctx, "task-keeper", version, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry setup: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.close()

	hasher, err := crypto.NewHasher(cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("password hasher: %w", err)
	}
	issuer, err := token.New(token.Options{
		Key:      []byte(cfg.JWTKey),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.AccessTTL,
	})
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}

	// Services
	authSvc := service.NewAuthService(store.users, hasher, issuer)
	taskSvc := service.NewTaskService(store.tasks, cfg.MaxPageSize)

	// gRPC server with interceptors
	opts := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcserver.RecoverUnary(logger),
			grpcserver.LoggingUnary(logger),
			grpcserver.AuthUnary(authSvc, grpcserver.PublicMethods...),
		),
	}
	if cfg.TLS() {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			return fmt.Errorf("load TLS cert/key: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	} else {
		logger.Warn("TLS disabled, serving plaintext")
	}
	s := grpc.NewServer(opts...)

	api.RegisterTaskKeeperServer(s, grpcserver.New(authSvc, taskSvc, logger))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)

	// Listen
	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.Bool("tls", cfg.TLS()))
		errCh <- s.Serve(lis)
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		hs.Shutdown()
		done := make(chan struct{})
		go func() {
			s.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			s.Stop()
		}
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
