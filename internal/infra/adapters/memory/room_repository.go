package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/RoomMeet/internal/domain/models"
	"github.com/qrave1/RoomMeet/internal/domain/repository"
)

type roomRepository struct {
	db *DB
}

func NewRoomRepository(db *DB) repository.RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.roomTitles[room.Title]; ok {
		return repository.ErrDuplicate
	}

	if _, ok := r.db.rooms[room.ID]; ok {
		return repository.ErrDuplicate
	}

	if room.HasSession() {
		for _, existing := range r.db.rooms {
			if existing.Session() == room.Session() {
				return repository.ErrDuplicate
			}
		}
	}

	r.db.rooms[room.ID] = copyRoom(room)
	r.db.roomTitles[room.Title] = room.ID

	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	room, ok := r.db.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return copyRoom(room), nil
}

func (r *roomRepository) GetByTitle(ctx context.Context, title string) (*models.Room, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	id, ok := r.db.roomTitles[title]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return copyRoom(r.db.rooms[id]), nil
}

func (r *roomRepository) GetBySession(ctx context.Context, sessionID string) (*models.Room, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, room := range r.db.rooms {
		if room.HasSession() && room.Session() == sessionID {
			return copyRoom(room), nil
		}
	}

	return nil, repository.ErrNotFound
}

func (r *roomRepository) SetSessionIfEmpty(ctx context.Context, id uuid.UUID, sessionID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	room, ok := r.db.rooms[id]
	if !ok {
		return false, repository.ErrNotFound
	}

	if room.HasSession() {
		return false, nil
	}

	room.SessionID = &sessionID
	room.UpdatedAt = time.Now()

	return true, nil
}

func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	room, ok := r.db.rooms[id]
	if !ok {
		return repository.ErrNotFound
	}

	delete(r.db.joinRecords, id)
	delete(r.db.roomTitles, room.Title)
	delete(r.db.rooms, id)

	return nil
}
