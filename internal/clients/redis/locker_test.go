package redis

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/pathways-backend/internal/data/aggregates"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

func testClient(t *testing.T) *Locker {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb, err := NewClient(context.Background(), Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return NewLocker(rdb, logger.Nop(), LockerOptions{TTL: 2 * time.Second, Wait: 200 * time.Millisecond})
}

func TestNewClientRequiresAddr(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	require.Error(t, err)
}

func TestNewLockerDefaults(t *testing.T) {
	l := NewLocker(nil, nil, LockerOptions{})
	require.Equal(t, DefaultLockTTL, l.ttl)
	require.Equal(t, DefaultLockWait, l.wait)

	_, err := l.Lock(context.Background(), "k")
	require.Error(t, err)
}

func TestLockerSerializesAndTimesOut(t *testing.T) {
	l := testClient(t)
	key := "test:" + uuid.NewString()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, key)
	require.NoError(t, err)

	_, err = l.Lock(ctx, key)
	require.Error(t, err)
	require.ErrorIs(t, err, aggregates.ErrRetryable)

	unlock()
	unlock()

	unlock2, err := l.Lock(ctx, key)
	require.NoError(t, err)
	unlock2()
}

func TestLockerConcurrentCounter(t *testing.T) {
	l := testClient(t)
	l.wait = 5 * time.Second
	key := "test:" + uuid.NewString()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), key)
			if err != nil {
				t.Errorf("Lock: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	require.Equal(t, 1, maxSeen)
}
