package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/qrave1/RoomMeet/internal/domain/models"
	"github.com/qrave1/RoomMeet/internal/utils/idgen"
)

var ErrUnknownSession = errors.New("memory provider: unknown session")

// SessionProvider - локальный провайдер сессий для разработки без LiveKit
type SessionProvider struct {
	mu       sync.Mutex
	sessions map[string]int
	created  int
}

func NewSessionProvider() *SessionProvider {
	return &SessionProvider{sessions: make(map[string]int)}
}

func (p *SessionProvider) CreateSession(ctx context.Context) (string, error) {
	id, err := idgen.GenerateSecureID("sess", 24)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.sessions[id] = 0
	p.created++

	return id, nil
}

func (p *SessionProvider) ListActiveSessions(ctx context.Context) ([]models.ActiveSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sessions := make([]models.ActiveSession, 0, len(p.sessions))
	for id, n := range p.sessions {
		sessions = append(sessions, models.ActiveSession{ID: id, Participants: n})
	}

	return sessions, nil
}

func (p *SessionProvider) CreateJoinToken(ctx context.Context, sessionID string, grant models.JoinGrant) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.sessions[sessionID]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}

	token, err := idgen.GenerateSecureID("tok", 32)
	if err != nil {
		return "", err
	}

	p.sessions[sessionID]++

	return token, nil
}

func (p *SessionProvider) CloseSession(ctx context.Context, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.sessions[sessionID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}

	delete(p.sessions, sessionID)

	return nil
}

// Expire закрывает сессию в обход сервиса, как если бы она истекла на стороне провайдера
func (p *SessionProvider) Expire(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.sessions, sessionID)
}

// Created - сколько сессий было создано за все время
func (p *SessionProvider) Created() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.created
}
