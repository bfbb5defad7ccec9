package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrave1/RoomMeet/internal/domain/models"
)

func TestSessionProvider_Lifecycle(t *testing.T) {
	ctx := context.Background()
	p := NewSessionProvider()

	id, err := p.CreateSession(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	token, err := p.CreateJoinToken(ctx, id, models.JoinGrant{Identity: "u1", Role: models.RolePublisher})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	active, err := p.ListActiveSessions(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, models.ActiveSession{ID: id, Participants: 1}, active[0])

	require.NoError(t, p.CloseSession(ctx, id))
	assert.ErrorIs(t, p.CloseSession(ctx, id), ErrUnknownSession)

	_, err = p.CreateJoinToken(ctx, id, models.JoinGrant{})
	assert.ErrorIs(t, err, ErrUnknownSession)

	assert.Equal(t, 1, p.Created())
}

func TestSessionProvider_Expire(t *testing.T) {
	ctx := context.Background()
	p := NewSessionProvider()

	id, err := p.CreateSession(ctx)
	require.NoError(t, err)

	p.Expire(id)

	active, err := p.ListActiveSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}
