package aggregates

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domainagg "github.com/yungbote/pathways-backend/internal/domain/aggregates"
)

func TestMemoryLockerSerializesSameKey(t *testing.T) {
	l := NewMemoryLocker()
	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "user-a")
			if err != nil {
				t.Errorf("Lock: %v", err)
				return
			}
			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()
	if got := maxInside.Load(); got != 1 {
		t.Fatalf("max concurrent holders: want=1 got=%d", got)
	}
	if n := len(l.(*memoryLocker).entries); n != 0 {
		t.Fatalf("entries leaked: %d", n)
	}
}

func TestMemoryLockerIndependentKeys(t *testing.T) {
	l := NewMemoryLocker()
	unlockA, err := l.Lock(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("Lock a: %v", err)
	}
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := l.Lock(ctx, "user-b")
	if err != nil {
		t.Fatalf("Lock b while a held: %v", err)
	}
	unlockB()
}

func TestMemoryLockerWaitTimeoutIsRetryable(t *testing.T) {
	l := NewMemoryLockerWithWait(20 * time.Millisecond)
	unlock, err := l.Lock(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer unlock()

	_, err = l.Lock(context.Background(), "user-a")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !domainagg.IsCode(MapError("op", err), domainagg.CodeRetryable) {
		t.Fatalf("expected retryable, got=%v", err)
	}
}

func TestMemoryLockerUnlockIdempotent(t *testing.T) {
	l := NewMemoryLocker()
	unlock, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	unlock()
	unlock()
	again, err := l.Lock(context.Background(), "k")
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	again()
}
