package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/qrave1/RoomMeet/internal/domain/models"
)

type mockSessionProvider struct {
	mock.Mock
}

func (m *mockSessionProvider) CreateSession(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockSessionProvider) ListActiveSessions(ctx context.Context) ([]models.ActiveSession, error) {
	args := m.Called(ctx)

	sessions, _ := args.Get(0).([]models.ActiveSession)
	return sessions, args.Error(1)
}

func (m *mockSessionProvider) CreateJoinToken(ctx context.Context, sessionID string, grant models.JoinGrant) (string, error) {
	args := m.Called(ctx, sessionID, grant)
	return args.String(0), args.Error(1)
}

func (m *mockSessionProvider) CloseSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
