package output

import "github.com/google/uuid"

// JoinResult - то, что получает пользователь после успешного входа в комнату
type JoinResult struct {
	RoomID    uuid.UUID `json:"room_id"`
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
}
