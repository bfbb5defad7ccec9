package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/qrave1/RoomMeet/internal/domain/models"
	domainrepo "github.com/qrave1/RoomMeet/internal/domain/repository"
)

const roomColumns = `id, title, password, host_id, session_id, is_reserved, start_time, people_count, created_at, updated_at`

type roomRepo struct {
	db *sqlx.DB
}

func NewRoomRepo(db *sqlx.DB) domainrepo.RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO rooms (id, title, password, host_id, session_id, is_reserved, start_time, people_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		room.ID,
		room.Title,
		room.Password,
		room.HostID,
		room.SessionID,
		room.IsReserved,
		room.StartTime,
		room.PeopleCount,
		room.CreatedAt,
		room.UpdatedAt,
	)

	return mapError(err)
}

func (r *roomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	return r.getOne(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = $1", id)
}

func (r *roomRepo) GetByTitle(ctx context.Context, title string) (*models.Room, error) {
	return r.getOne(ctx, "SELECT "+roomColumns+" FROM rooms WHERE title = $1", title)
}

func (r *roomRepo) GetBySession(ctx context.Context, sessionID string) (*models.Room, error) {
	return r.getOne(ctx, "SELECT "+roomColumns+" FROM rooms WHERE session_id = $1", sessionID)
}

func (r *roomRepo) getOne(ctx context.Context, query string, arg any) (*models.Room, error) {
	var room models.Room

	if err := r.db.GetContext(ctx, &room, query, arg); err != nil {
		return nil, mapError(err)
	}

	return &room, nil
}

func (r *roomRepo) SetSessionIfEmpty(ctx context.Context, id uuid.UUID, sessionID string) (bool, error) {
	res, err := r.db.ExecContext(
		ctx,
		"UPDATE rooms SET session_id = $1, updated_at = $2 WHERE id = $3 AND session_id IS NULL",
		sessionID,
		time.Now(),
		id,
	)
	if err != nil {
		return false, mapError(err)
	}

	aff, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	if aff == 1 {
		return true, nil
	}

	// 0 строк: либо сессия уже записана, либо комнаты нет
	var exists bool
	if err = r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1)", id); err != nil {
		return false, mapError(err)
	}

	if !exists {
		return false, domainrepo.ErrNotFound
	}

	return false, nil
}

func (r *roomRepo) Delete(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Блокируем строку комнаты: конкурентный вход либо успеет закоммитить свою запись
	// до этого места, либо после нас не найдет комнату
	var locked int
	if err = tx.GetContext(ctx, &locked, "SELECT 1 FROM rooms WHERE id = $1 FOR UPDATE", id); err != nil {
		err = mapError(err)
		return err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM join_records WHERE room_id = $1", id); err != nil {
		return fmt.Errorf("delete join records: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM rooms WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if aff == 0 {
		err = domainrepo.ErrNotFound
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
