package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/qrave1/RoomMeet/internal/domain/input"
)

type Room struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Title    string    `json:"title" db:"title"`
	Password string    `json:"-" db:"password"`
	HostID   uuid.UUID `json:"host_id" db:"host_id"`

	// SessionID - идентификатор удаленной сессии, nil пока сессия не активирована
	SessionID *string `json:"session_id" db:"session_id"`

	IsReserved bool       `json:"is_reserved" db:"is_reserved"`
	StartTime  *time.Time `json:"start_time" db:"start_time"`

	PeopleCount int       `json:"people_count" db:"people_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func NewRoom(in *input.CreateRoomInput) (*Room, error) {
	return newRoom(in.HostID, in.Title, in.Password)
}

func NewReservedRoom(in *input.ReserveRoomInput) (*Room, error) {
	room, err := newRoom(in.HostID, in.Title, in.Password)
	if err != nil {
		return nil, err
	}

	startTime := in.ReservationTime
	room.IsReserved = true
	room.StartTime = &startTime

	return room, nil
}

func newRoom(hostID uuid.UUID, title, password string) (*Room, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash room password: %w", err)
	}

	now := time.Now()

	return &Room{
		ID:        uuid.New(),
		Title:     title,
		Password:  string(hashed),
		HostID:    hostID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *Room) HasSession() bool {
	return r.SessionID != nil && *r.SessionID != ""
}

func (r *Room) Session() string {
	if r.SessionID == nil {
		return ""
	}

	return *r.SessionID
}

func (r *Room) ConnectSession(sessionID string) {
	r.SessionID = &sessionID
	r.UpdatedAt = time.Now()
}

// Started сообщает, наступило ли время брони. Для обычной комнаты всегда true.
func (r *Room) Started(now time.Time) bool {
	if !r.IsReserved {
		return true
	}

	if r.StartTime == nil {
		return false
	}

	return !now.Before(*r.StartTime)
}

func (r *Room) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(r.Password), []byte(password)) == nil
}
