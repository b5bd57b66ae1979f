package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/isdelr/salonx-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvents struct {
	cutoffs []time.Time
	removed int64
	err     error
}

func (f *fakeEvents) CreateEvent(context.Context, string, string, string, *string, string) error {
	return nil
}

func (f *fakeEvents) GetRecentEventsForUser(context.Context, string, int) ([]models.Event, error) {
	return []models.Event{}, nil
}

func (f *fakeEvents) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.removed, f.err
}

func TestNewScheduler_Validation(t *testing.T) {
	_, err := NewScheduler(&fakeEvents{}, 0, "@hourly")
	assert.Error(t, err)

	_, err = NewScheduler(&fakeEvents{}, time.Hour, "not a cron spec")
	assert.Error(t, err)

	s, err := NewScheduler(&fakeEvents{}, time.Hour, "*/5 * * * *")
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestScheduler_PruneUsesRetentionWindow(t *testing.T) {
	events := &fakeEvents{removed: 3}
	s, err := NewScheduler(events, 24*time.Hour, "@hourly")
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	n, err := s.Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.Len(t, events.cutoffs, 1)
	assert.Equal(t, now.Add(-24*time.Hour), events.cutoffs[0])
}

func TestScheduler_PruneError(t *testing.T) {
	events := &fakeEvents{err: errors.New("database is locked")}
	s, err := NewScheduler(events, time.Hour, "@hourly")
	require.NoError(t, err)

	_, err = s.Prune(context.Background())
	assert.Error(t, err)

	// The cron job swallows the error after logging it.
	assert.NotPanics(t, s.runPrune)
}

func TestScheduler_RunStop(t *testing.T) {
	s, err := NewScheduler(&fakeEvents{}, time.Hour, "@hourly")
	require.NoError(t, err)

	s.Run()
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
