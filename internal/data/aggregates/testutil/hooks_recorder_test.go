package testutil

import (
	"testing"
	"time"
)

func TestHooksRecorderCapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("agg.op", "success", 10*time.Millisecond)
	h.ObserveOperation("agg.other", "conflict", time.Millisecond)
	h.ObserveLockWait("agg.op", time.Millisecond)
	h.IncConflict("agg.op")
	h.IncRetry("agg.op")

	if got := h.Statuses("agg.op"); len(got) != 1 || got[0] != "success" {
		t.Fatalf("Statuses: got=%v", got)
	}
	if len(h.LockWaits) != 1 || len(h.Conflicts) != 1 || len(h.Retries) != 1 {
		t.Fatalf("unexpected counters: waits=%v conflicts=%v retries=%v", h.LockWaits, h.Conflicts, h.Retries)
	}
}
