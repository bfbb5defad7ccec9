package usecase

import (
	"context"

	"github.com/qrave1/RoomMeet/internal/domain/models"
)

// SessionProvider - внешний сервис медиа-сессий. Сервис комнат не придумывает
// идентификаторы сессий, а только сохраняет выданные провайдером.
type SessionProvider interface {
	CreateSession(ctx context.Context) (string, error)
	ListActiveSessions(ctx context.Context) ([]models.ActiveSession, error)
	CreateJoinToken(ctx context.Context, sessionID string, grant models.JoinGrant) (string, error)
	CloseSession(ctx context.Context, sessionID string) error
}

// RoomLocker - взаимное исключение по ключу комнаты
type RoomLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
