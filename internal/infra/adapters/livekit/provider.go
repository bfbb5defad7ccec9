package livekit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"github.com/qrave1/RoomMeet/internal/application/config"
	"github.com/qrave1/RoomMeet/internal/domain/models"
	"github.com/qrave1/RoomMeet/internal/utils/idgen"
)

var (
	ErrEmptyRoom      = errors.New("livekit: room created without name")
	ErrUnknownSession = errors.New("livekit: unknown session")
)

// roomService - часть lksdk.RoomServiceClient, которой мы пользуемся
type roomService interface {
	CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error)
	ListRooms(ctx context.Context, req *livekit.ListRoomsRequest) (*livekit.ListRoomsResponse, error)
	DeleteRoom(ctx context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error)
}

// Provider - сессия в терминах сервиса это комната LiveKit, id сессии = имя комнаты
type Provider struct {
	rooms  roomService
	tokens *TokenGenerator

	emptyTimeout    time.Duration
	maxParticipants uint32
}

func NewProvider(cfg *config.LiveKitConfig) *Provider {
	client := lksdk.NewRoomServiceClient(cfg.URL, cfg.APIKey, cfg.APISecret)

	return newProvider(client, NewTokenGenerator(cfg.APIKey, cfg.APISecret, cfg.TokenTTL), cfg.EmptyTimeout, cfg.MaxParticipants)
}

func newProvider(rooms roomService, tokens *TokenGenerator, emptyTimeout time.Duration, maxParticipants uint32) *Provider {
	return &Provider{
		rooms:           rooms,
		tokens:          tokens,
		emptyTimeout:    emptyTimeout,
		maxParticipants: maxParticipants,
	}
}

func (p *Provider) CreateSession(ctx context.Context) (string, error) {
	name, err := idgen.GenerateSecureID("sess", 24)
	if err != nil {
		return "", fmt.Errorf("generate session name: %w", err)
	}

	room, err := p.rooms.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:            name,
		EmptyTimeout:    uint32(p.emptyTimeout.Seconds()),
		MaxParticipants: p.maxParticipants,
	})
	if err != nil {
		return "", fmt.Errorf("create livekit room: %w", err)
	}

	if room == nil || room.GetName() == "" {
		return "", ErrEmptyRoom
	}

	return room.GetName(), nil
}

func (p *Provider) ListActiveSessions(ctx context.Context) ([]models.ActiveSession, error) {
	return p.listRooms(ctx, nil)
}

func (p *Provider) listRooms(ctx context.Context, names []string) ([]models.ActiveSession, error) {
	resp, err := p.rooms.ListRooms(ctx, &livekit.ListRoomsRequest{Names: names})
	if err != nil {
		return nil, fmt.Errorf("list livekit rooms: %w", err)
	}

	sessions := make([]models.ActiveSession, 0, len(resp.GetRooms()))
	for _, room := range resp.GetRooms() {
		sessions = append(sessions, models.ActiveSession{
			ID:           room.GetName(),
			Participants: int(room.GetNumParticipants()),
		})
	}

	return sessions, nil
}

// CreateJoinToken - токен LiveKit подписывается локально, поэтому существование
// комнаты проверяется отдельным запросом
func (p *Provider) CreateJoinToken(ctx context.Context, sessionID string, grant models.JoinGrant) (string, error) {
	sessions, err := p.listRooms(ctx, []string{sessionID})
	if err != nil {
		return "", err
	}

	found := false
	for _, s := range sessions {
		if s.ID == sessionID {
			found = true
			break
		}
	}

	if !found {
		return "", fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}

	token, err := p.tokens.Generate(sessionID, grant)
	if err != nil {
		return "", fmt.Errorf("generate livekit token: %w", err)
	}

	return token, nil
}

func (p *Provider) CloseSession(ctx context.Context, sessionID string) error {
	if _, err := p.rooms.DeleteRoom(ctx, &livekit.DeleteRoomRequest{Room: sessionID}); err != nil {
		return fmt.Errorf("delete livekit room: %w", err)
	}

	return nil
}
