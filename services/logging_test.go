package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacuum-backend/config"
	"vacuum-backend/models"
)

type memorySink struct {
	mu      sync.Mutex
	batches [][]models.ActivityLog
	err     error
}

func (s *memorySink) SaveBatch(entries []models.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, entries)
	return nil
}

func (s *memorySink) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func TestLogBuffer_FlushesWhenFull(t *testing.T) {
	sink := &memorySink{}
	lb := NewLogBuffer(sink, 3, time.Hour)

	lb.Record(models.ActivityLog{EventType: models.EventTransition})
	lb.Record(models.ActivityLog{EventType: models.EventTransition})
	assert.Equal(t, 0, sink.total())

	lb.Record(models.ActivityLog{EventType: models.EventRoomCleaned})
	assert.Eventually(t, func() bool { return sink.total() == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, lb.Pending())
}

func TestLogBuffer_FlushesPeriodically(t *testing.T) {
	sink := &memorySink{}
	lb := NewLogBuffer(sink, 100, 10*time.Millisecond)
	lb.Start()
	defer lb.Stop()

	lb.Record(models.ActivityLog{EventType: models.EventDirtInjected})

	assert.Eventually(t, func() bool { return sink.total() == 1 }, time.Second, 5*time.Millisecond)
}

func TestLogBuffer_StopFlushesRemainder(t *testing.T) {
	sink := &memorySink{}
	lb := NewLogBuffer(sink, 100, time.Hour)
	lb.Start()

	for i := 0; i < 5; i++ {
		lb.Record(models.ActivityLog{EventType: models.EventTransition})
	}
	lb.Stop()

	assert.Equal(t, 5, sink.total())
}

func TestLogBuffer_FailedBatchIsDropped(t *testing.T) {
	sink := &memorySink{err: errors.New("connection refused")}
	lb := NewLogBuffer(sink, 100, time.Hour)

	lb.Record(models.ActivityLog{EventType: models.EventTransition})
	lb.Flush()

	assert.Equal(t, 0, lb.Pending())
	assert.Equal(t, 0, sink.total())
}

func TestOpenActivityStore_Disabled(t *testing.T) {
	cfg := &config.Config{}

	_, err := OpenActivityStore(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatabaseDisabled)
}
