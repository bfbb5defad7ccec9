package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/qrave1/RoomMeet/internal/domain/models"
)

// DB - общее in-memory хранилище для репозиториев, чтобы удаление комнаты
// и ее JoinRecord происходило под одной блокировкой, как транзакция.
type DB struct {
	mu sync.RWMutex

	users       map[uuid.UUID]*models.User
	rooms       map[uuid.UUID]*models.Room
	roomTitles  map[string]uuid.UUID
	joinRecords map[uuid.UUID][]*models.JoinRecord
}

func NewDB() *DB {
	return &DB{
		users:       make(map[uuid.UUID]*models.User),
		rooms:       make(map[uuid.UUID]*models.Room),
		roomTitles:  make(map[string]uuid.UUID),
		joinRecords: make(map[uuid.UUID][]*models.JoinRecord),
	}
}

func copyRoom(r *models.Room) *models.Room {
	c := *r

	if r.SessionID != nil {
		s := *r.SessionID
		c.SessionID = &s
	}

	if r.StartTime != nil {
		t := *r.StartTime
		c.StartTime = &t
	}

	return &c
}
