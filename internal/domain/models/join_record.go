package models

import (
	"time"

	"github.com/google/uuid"
)

// JoinRecord - факт входа пользователя в комнату с выданным токеном.
// Живет ровно столько, сколько живет комната.
type JoinRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	RoomID    uuid.UUID `json:"room_id" db:"room_id"`
	Token     string    `json:"-" db:"token"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewJoinRecord(userID, roomID uuid.UUID, token string) *JoinRecord {
	return &JoinRecord{
		ID:        uuid.New(),
		UserID:    userID,
		RoomID:    roomID,
		Token:     token,
		CreatedAt: time.Now(),
	}
}
