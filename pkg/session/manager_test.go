package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/intake/pkg/adapters/memory"
	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/ports"
	"github.com/carebridge/intake/pkg/session"
)

// slowStore simulates IO latency to provoke races if locking is missing.
type slowStore struct {
	data map[string]*domain.SessionSnapshot
	mu   sync.Mutex
}

func (s *slowStore) Save(ctx context.Context, sessionID string, snap *domain.SessionSnapshot) error {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.SessionSnapshot)
	}
	s.data[sessionID] = snap
	return nil
}

func (s *slowStore) Load(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.data[sessionID]; ok {
		return snap, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *slowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *slowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func snapshotFor(id string, topic string, value any) *domain.SessionSnapshot {
	sess := domain.NewSession(id)
	if topic != "" {
		_ = sess.Record(topic, value)
	}
	return sess.Snapshot()
}

func TestManagerLocking(t *testing.T) {
	store := &slowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	require.NoError(t, manager.Save(ctx, id, snapshotFor(id, "counter", 0)))

	// Load-modify-save under WithLock from many goroutines; without the
	// per-session mutex the read-modify-write cycles would interleave.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.WithLock(ctx, id, func(ctx context.Context) error {
				snap, err := store.Load(ctx, id)
				if err != nil {
					return err
				}
				snap.Topics["counter"] = snap.Topics["counter"].(int) + 1
				return store.Save(ctx, id, snap)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 10, snap.Topics["counter"])
}

func TestManagerLoadMissing(t *testing.T) {
	manager := session.NewManager(memory.NewStore())

	_, err := manager.Load(context.Background(), "ghost")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}

func TestManagerDelete(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, manager.Save(ctx, "s1", snapshotFor("s1", "", nil)))
	require.NoError(t, manager.Delete(ctx, "s1"))

	_, err := manager.Load(ctx, "s1")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}

// trackingLocker records lock/unlock calls.
type trackingLocker struct {
	mu       sync.Mutex
	locked   []string
	unlocked int
}

func (l *trackingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = append(l.locked, key)
	return func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocked++
		return nil
	}, nil
}

func TestManagerDistributedLocker(t *testing.T) {
	locker := &trackingLocker{}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker))
	ctx := context.Background()

	require.NoError(t, manager.Save(ctx, "s1", snapshotFor("s1", "", nil)))

	locker.mu.Lock()
	defer locker.mu.Unlock()
	assert.Equal(t, []string{"s1"}, locker.locked)
	assert.Equal(t, 1, locker.unlocked)
}
