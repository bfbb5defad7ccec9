package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"

	"github.com/qrave1/RoomMeet/internal/application/constant"
)

const lockPrefix = "roommeet:lock:"

// RoomLocker - распределенная блокировка комнаты через redsync
type RoomLocker struct {
	client goredislib.UniversalClient
	rs     *redsync.Redsync
	ttl    time.Duration
}

func NewRoomLocker(ctx context.Context, redisURL string, ttl time.Duration) (*RoomLocker, error) {
	opts, err := goredislib.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredislib.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err = client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	slog.Info("connected to redis")

	return &RoomLocker{
		client: client,
		rs:     redsync.New(goredis.NewPool(client)),
		ttl:    ttl,
	}, nil
}

func (l *RoomLocker) Lock(ctx context.Context, key string) (func(), error) {
	mutex := l.rs.NewMutex(lockPrefix+key, redsync.WithExpiry(l.ttl))

	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("redsync lock: %w", err)
	}

	return func() {
		if _, err := mutex.Unlock(); err != nil {
			slog.Error("redsync unlock", slog.String(constant.LockKey, key), slog.Any(constant.Error, err))
		}
	}, nil
}

func (l *RoomLocker) Close() error {
	return l.client.Close()
}
