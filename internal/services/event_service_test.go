package services

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/salonx-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	s := NewEventService(db)
	ctx := context.Background()

	uid := "user-1"
	other := "user-2"
	require.NoError(t, s.CreateEvent(ctx, models.EventLoginFail, "warn", "Invalid password", &uid, "a@example.com"))
	require.NoError(t, s.CreateEvent(ctx, models.EventLoginSuccess, "info", "Login successful", &uid, "a@example.com"))
	require.NoError(t, s.CreateEvent(ctx, models.EventLoginSuccess, "info", "Login successful", &other, "b@example.com"))
	require.NoError(t, s.CreateEvent(ctx, models.EventLoginFail, "warn", "Login for unknown email", nil, "ghost@example.com"))

	events, err := s.GetRecentEventsForUser(ctx, uid, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventLoginSuccess, events[0].Type)
	assert.Equal(t, models.EventLoginFail, events[1].Type)
	require.NotNil(t, events[0].UserID)
	assert.Equal(t, uid, *events[0].UserID)
	assert.Equal(t, "a@example.com", events[0].Email)

	limited, err := s.GetRecentEventsForUser(ctx, uid, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := s.GetRecentEventsForUser(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestEventService_PruneBefore(t *testing.T) {
	db := newTestDB(t)
	s := NewEventService(db)
	ctx := context.Background()

	uid := "user-1"
	require.NoError(t, s.CreateEvent(ctx, models.EventSignup, "info", "Account created", &uid, "a@example.com"))
	_, err := db.Exec("UPDATE auth_events SET created_at = ?", time.Now().UTC().Add(-48*time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.CreateEvent(ctx, models.EventLoginSuccess, "info", "Login successful", &uid, "a@example.com"))

	n, err := s.PruneBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	events, err := s.GetRecentEventsForUser(ctx, uid, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventLoginSuccess, events[0].Type)
}
