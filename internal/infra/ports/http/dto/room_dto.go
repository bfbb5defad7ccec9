package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/qrave1/RoomMeet/internal/domain/models"
)

type CreateRoomRequest struct {
	Title    string `json:"title"`
	Password string `json:"password"`
}

type CreateRoomResponse struct {
	SessionID string `json:"session_id"`
}

type ReserveRoomRequest struct {
	Title           string    `json:"title"`
	Password        string    `json:"password"`
	ReservationTime time.Time `json:"reservation_time"`
}

type ReserveRoomResponse struct {
	Title string `json:"title"`
}

type JoinRoomRequest struct {
	Title    string `json:"title"`
	Password string `json:"password"`
}

type JoinRoomResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	RoomID    uuid.UUID `json:"room_id"`
	// WSURL - адрес медиа-сервера, к которому клиент подключается с токеном
	WSURL string `json:"ws_url"`
}

type RoomResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	HostID      uuid.UUID  `json:"host_id"`
	SessionID   *string    `json:"session_id"`
	IsReserved  bool       `json:"is_reserved"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	PeopleCount int        `json:"people_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewRoomResponseFromModel(room *models.Room) RoomResponse {
	return RoomResponse{
		ID:          room.ID,
		Title:       room.Title,
		HostID:      room.HostID,
		SessionID:   room.SessionID,
		IsReserved:  room.IsReserved,
		StartTime:   room.StartTime,
		PeopleCount: room.PeopleCount,
		CreatedAt:   room.CreatedAt,
	}
}

type JoinRecordResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ListJoinsResponse struct {
	Joins []JoinRecordResponse `json:"joins"`
}

func NewListJoinsResponse(records []*models.JoinRecord) ListJoinsResponse {
	resp := ListJoinsResponse{
		Joins: make([]JoinRecordResponse, 0, len(records)),
	}

	for _, r := range records {
		resp.Joins = append(resp.Joins, JoinRecordResponse{
			ID:        r.ID,
			UserID:    r.UserID,
			CreatedAt: r.CreatedAt,
		})
	}

	return resp
}
