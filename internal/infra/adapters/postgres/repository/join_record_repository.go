package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/qrave1/RoomMeet/internal/domain/models"
	domainrepo "github.com/qrave1/RoomMeet/internal/domain/repository"
)

type joinRecordRepo struct {
	db *sqlx.DB
}

func NewJoinRecordRepo(db *sqlx.DB) domainrepo.JoinRecordRepository {
	return &joinRecordRepo{db: db}
}

func (r *joinRecordRepo) Create(ctx context.Context, record *models.JoinRecord) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(
		ctx,
		"UPDATE rooms SET people_count = people_count + 1, updated_at = now() WHERE id = $1",
		record.RoomID,
	)
	if err != nil {
		return fmt.Errorf("increment people count: %w", err)
	}

	if aff, _ := res.RowsAffected(); aff == 0 {
		err = domainrepo.ErrNotFound
		return err
	}

	_, err = tx.ExecContext(
		ctx,
		"INSERT INTO join_records (id, user_id, room_id, token, created_at) VALUES ($1, $2, $3, $4, $5)",
		record.ID,
		record.UserID,
		record.RoomID,
		record.Token,
		record.CreatedAt,
	)
	if err != nil {
		err = mapError(err)
		return fmt.Errorf("insert join record: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (r *joinRecordRepo) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*models.JoinRecord, error) {
	var records []*models.JoinRecord

	query := `
		SELECT id, user_id, room_id, token, created_at
		FROM join_records
		WHERE room_id = $1
		ORDER BY created_at
	`

	if err := r.db.SelectContext(ctx, &records, query, roomID); err != nil {
		return nil, mapError(err)
	}

	return records, nil
}
