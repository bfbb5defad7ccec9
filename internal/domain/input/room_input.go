package input

import (
	"time"

	"github.com/google/uuid"
)

type CreateRoomInput struct {
	HostID   uuid.UUID `json:"host_id"`
	Title    string    `json:"title"`
	Password string    `json:"password"`
}

type ReserveRoomInput struct {
	HostID          uuid.UUID `json:"host_id"`
	Title           string    `json:"title"`
	Password        string    `json:"password"`
	ReservationTime time.Time `json:"reservation_time"`
}

// JoinRoomInput - пароль комнаты проверяется на стороне вызывающего
type JoinRoomInput struct {
	UserID uuid.UUID `json:"user_id"`
	Title  string    `json:"title"`
}
