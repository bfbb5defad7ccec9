package constant

// Ключи атрибутов slog
const (
	Error     = "error"
	UserID    = "user_id"
	UserName  = "user_name"
	RoomID    = "room_id"
	RoomTitle = "room_title"
	SessionID = "session_id"
	LockKey   = "lock_key"
)
