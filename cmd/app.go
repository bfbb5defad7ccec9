package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qrave1/RoomMeet/internal/application/config"
	"github.com/qrave1/RoomMeet/internal/application/constant"
	"github.com/qrave1/RoomMeet/internal/application/metric"
	"github.com/qrave1/RoomMeet/internal/domain/repository"
	"github.com/qrave1/RoomMeet/internal/infra/adapters/livekit"
	"github.com/qrave1/RoomMeet/internal/infra/adapters/memory"
	"github.com/qrave1/RoomMeet/internal/infra/adapters/postgres"
	pgrepo "github.com/qrave1/RoomMeet/internal/infra/adapters/postgres/repository"
	"github.com/qrave1/RoomMeet/internal/infra/adapters/redis"
	"github.com/qrave1/RoomMeet/internal/infra/ports/http/handlers"
	"github.com/qrave1/RoomMeet/internal/infra/ports/http/server"
	"github.com/qrave1/RoomMeet/internal/usecase"
)

func runApp() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var logLevel slog.LevelVar

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				os.Stdout,
				&slog.HandlerOptions{Level: &logLevel},
			),
		),
	)

	cfg, err := config.New()
	if err != nil {
		slog.Error("parse config", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	if cfg.Debug {
		logLevel.Set(slog.LevelDebug)
	}

	slog.Info(
		"Running app",
		slog.Bool("debug", cfg.Debug),
		slog.String("storage", cfg.StorageDriver),
		slog.String("lock", cfg.Lock.Driver),
		slog.String("session_provider", cfg.SessionProvider),
	)

	store, err := newStorage(ctx, cfg)
	if err != nil {
		slog.Error("init storage", slog.Any(constant.Error, err))
		os.Exit(1)
	}
	defer store.Close()

	userUsecase := usecase.NewUserUsecase([]byte(cfg.JWTSecret), store.users)
	roomUsecase := usecase.NewRoomUsecase(store.rooms, store.joins, store.users, newSessionProvider(cfg), store.locker)

	authHandler := handlers.NewAuthHandler(userUsecase, !cfg.Debug)
	roomHandler := handlers.NewRoomHandler(roomUsecase, cfg.LiveKit.URL)

	echoSrv := server.New(cfg, authHandler, roomHandler)
	metricsSrv := metric.NewServer()

	echoSrvCh := make(chan error, 1)
	metricsSrvCh := make(chan error, 1)

	go func() {
		echoSrvCh <- echoSrv.Start(":" + cfg.Port)
	}()

	go func() {
		metricsSrvCh <- metricsSrv.Start(":" + cfg.MetricPort)
	}()

	slog.Info("Servers started", slog.String("port", cfg.Port), slog.String("metric_port", cfg.MetricPort))

	select {
	case <-ctx.Done():
		slog.Info("Shutting down servers due to context cancel")
	case err := <-echoSrvCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", slog.Any(constant.Error, err))
		}
	case err := <-metricsSrvCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", slog.Any(constant.Error, err))
		}
	}

	// Graceful shutdown
	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer timeoutCancel()

	if err := echoSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown HTTP server", slog.Any(constant.Error, err))
	}

	if err := metricsSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown metric server", slog.Any(constant.Error, err))
	}
}

type storage struct {
	rooms  repository.RoomRepository
	joins  repository.JoinRecordRepository
	users  repository.UserRepository
	locker usecase.RoomLocker

	closers []func() error
}

func newStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	s := &storage{}

	if cfg.StorageDriver == config.StorageDriverMemory {
		slog.Warn("using in-memory storage, data will be lost on restart")

		db := memory.NewDB()
		s.rooms = memory.NewRoomRepository(db)
		s.joins = memory.NewJoinRecordRepository(db)
		s.users = memory.NewUserRepository(db)
		s.locker = memory.NewRoomLocker()

		return s, s.withLocker(ctx, cfg)
	}

	db, err := postgres.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, db.Close)

	s.rooms = pgrepo.NewRoomRepo(db)
	s.joins = pgrepo.NewJoinRecordRepo(db)
	s.users = pgrepo.NewUserRepo(db)
	s.locker = memory.NewRoomLocker()

	if cfg.Lock.Driver == config.LockDriverPostgres {
		s.locker = postgres.NewRoomLocker(db)
	}

	if err = s.withLocker(ctx, cfg); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// withLocker подключает redis, если блокировка комнат распределенная
func (s *storage) withLocker(ctx context.Context, cfg *config.Config) error {
	if cfg.Lock.Driver != config.LockDriverRedis {
		return nil
	}

	locker, err := redis.NewRoomLocker(ctx, cfg.Redis.URL, cfg.Lock.TTL)
	if err != nil {
		return err
	}

	s.locker = locker
	s.closers = append(s.closers, locker.Close)

	return nil
}

func (s *storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			slog.Error("close storage", slog.Any(constant.Error, err))
		}
	}
}

func newSessionProvider(cfg *config.Config) usecase.SessionProvider {
	if cfg.SessionProvider == config.SessionProviderMemory {
		slog.Warn("using in-memory session provider, join tokens are not valid for any media server")
		return memory.NewSessionProvider()
	}

	return livekit.NewProvider(&cfg.LiveKit)
}
