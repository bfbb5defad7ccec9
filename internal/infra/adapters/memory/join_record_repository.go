package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/qrave1/RoomMeet/internal/domain/models"
	"github.com/qrave1/RoomMeet/internal/domain/repository"
)

type joinRecordRepository struct {
	db *DB
}

func NewJoinRecordRepository(db *DB) repository.JoinRecordRepository {
	return &joinRecordRepository{db: db}
}

func (r *joinRecordRepository) Create(ctx context.Context, record *models.JoinRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	room, ok := r.db.rooms[record.RoomID]
	if !ok {
		return repository.ErrNotFound
	}

	rec := *record
	r.db.joinRecords[record.RoomID] = append(r.db.joinRecords[record.RoomID], &rec)
	room.PeopleCount++

	return nil
}

func (r *joinRecordRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*models.JoinRecord, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	records := make([]*models.JoinRecord, 0, len(r.db.joinRecords[roomID]))
	for _, rec := range r.db.joinRecords[roomID] {
		c := *rec
		records = append(records, &c)
	}

	return records, nil
}
