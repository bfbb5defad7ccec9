package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/qrave1/RoomMeet/internal/application/constant"
)

// RoomLocker - advisory lock Postgres на отдельном соединении.
// Лок сессионный, поэтому соединение держится до unlock.
type RoomLocker struct {
	db *sqlx.DB
}

func NewRoomLocker(db *sqlx.DB) *RoomLocker {
	return &RoomLocker{db: db}
}

func (l *RoomLocker) Lock(ctx context.Context, key string) (func(), error) {
	conn, err := l.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire conn: %w", err)
	}

	if _, err = conn.ExecContext(ctx, "SELECT pg_advisory_lock(hashtext($1))", key); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pg_advisory_lock: %w", err)
	}

	return func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := conn.ExecContext(unlockCtx, "SELECT pg_advisory_unlock(hashtext($1))", key); err != nil {
			slog.Error("pg_advisory_unlock", slog.String(constant.LockKey, key), slog.Any(constant.Error, err))
		}

		if err := conn.Close(); err != nil {
			slog.Error("close lock conn", slog.Any(constant.Error, err))
		}
	}, nil
}
