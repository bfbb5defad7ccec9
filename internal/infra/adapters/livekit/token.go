package livekit

import (
	"time"

	"github.com/livekit/protocol/auth"

	"github.com/qrave1/RoomMeet/internal/domain/models"
)

// TokenGenerator выпускает access token LiveKit для конкретной комнаты
type TokenGenerator struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration
}

func NewTokenGenerator(apiKey, apiSecret string, ttl time.Duration) *TokenGenerator {
	return &TokenGenerator{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		ttl:       ttl,
	}
}

func (g *TokenGenerator) Generate(room string, grant models.JoinGrant) (string, error) {
	at := auth.NewAccessToken(g.apiKey, g.apiSecret)

	canPublish := grant.Role == models.RolePublisher
	canSubscribe := true
	canPublishData := canPublish

	video := &auth.VideoGrant{
		RoomJoin:       true,
		Room:           room,
		CanPublish:     &canPublish,
		CanSubscribe:   &canSubscribe,
		CanPublishData: &canPublishData,
	}

	at.AddGrant(video).
		SetIdentity(grant.Identity).
		SetName(grant.Name).
		SetMetadata(grant.Metadata).
		SetValidFor(g.ttl)

	return at.ToJWT()
}
