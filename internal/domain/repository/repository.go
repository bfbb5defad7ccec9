package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/qrave1/RoomMeet/internal/domain/models"
)

var (
	// ErrNotFound - запись не найдена
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate - нарушено ограничение уникальности
	ErrDuplicate = errors.New("repository: duplicate entry")
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetByTitle(ctx context.Context, title string) (*models.Room, error)
	GetBySession(ctx context.Context, sessionID string) (*models.Room, error)

	// SetSessionIfEmpty записывает сессию, только если у комнаты ее еще нет.
	// Возвращает false, если сессию уже кто-то записал.
	SetSessionIfEmpty(ctx context.Context, id uuid.UUID, sessionID string) (bool, error)

	// Delete удаляет комнату вместе со всеми JoinRecord в одной транзакции
	Delete(ctx context.Context, id uuid.UUID) error
}

type JoinRecordRepository interface {
	// Create сохраняет запись о входе и увеличивает people_count комнаты
	Create(ctx context.Context, record *models.JoinRecord) error
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*models.JoinRecord, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}
