package command

import (
	"sync"
	"testing"
	"time"
)

func TestCooldownAllowThenBlock(t *testing.T) {
	tr := NewCooldownTracker(DefaultCooldownTTL)
	now := time.Now()

	if !tr.Allow("b1", "!sw+", now, 5*time.Second) {
		t.Fatal("first use should be allowed")
	}
	if tr.Allow("b1", "!sw+", now.Add(3*time.Second), 5*time.Second) {
		t.Error("use inside the window should be blocked")
	}
	if !tr.Allow("b1", "!sw+", now.Add(5*time.Second), 5*time.Second) {
		t.Error("use at exactly the window edge should be allowed")
	}
}

func TestCooldownRejectionLeavesLastUsed(t *testing.T) {
	tr := NewCooldownTracker(DefaultCooldownTTL)
	now := time.Now()

	tr.Allow("b1", "!sw+", now, 10*time.Second)
	// Rejections must not refresh the window.
	tr.Allow("b1", "!sw+", now.Add(6*time.Second), 10*time.Second)
	if !tr.Allow("b1", "!sw+", now.Add(10*time.Second), 10*time.Second) {
		t.Error("window should be measured from the last allowed use")
	}
}

func TestCooldownZeroAlwaysAllows(t *testing.T) {
	tr := NewCooldownTracker(DefaultCooldownTTL)
	now := time.Now()
	for i := 0; i < 3; i++ {
		if !tr.Allow("b1", "!resetcounts", now, 0) {
			t.Fatalf("use %d with zero cooldown should be allowed", i)
		}
	}
}

func TestCooldownKeysAreIndependent(t *testing.T) {
	tr := NewCooldownTracker(DefaultCooldownTTL)
	now := time.Now()

	tr.Allow("b1", "!sw+", now, 5*time.Second)
	if !tr.Allow("b2", "!sw+", now, 5*time.Second) {
		t.Error("same key on another broadcaster should be allowed")
	}
	if !tr.Allow("b1", "!death+", now, 5*time.Second) {
		t.Error("another key on the same broadcaster should be allowed")
	}
}

func TestCooldownConcurrentSingleWinner(t *testing.T) {
	tr := NewCooldownTracker(DefaultCooldownTTL)
	now := time.Now()

	const workers = 32
	var wg sync.WaitGroup
	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- tr.Allow("b1", "!sw+", now, 5*time.Second)
		}()
	}
	wg.Wait()
	close(results)

	allowed := 0
	for ok := range results {
		if ok {
			allowed++
		}
	}
	if allowed != 1 {
		t.Errorf("allowed = %d, want exactly 1", allowed)
	}
}

func TestCooldownSweepEvictsStale(t *testing.T) {
	tr := NewCooldownTracker(time.Minute)
	now := time.Now()

	tr.Allow("b1", "!sw+", now.Add(-2*time.Minute), 5*time.Second)
	tr.Allow("b1", "!death+", now, 5*time.Second)

	if got := tr.sweep(now); got != 1 {
		t.Errorf("sweep evicted %d entries, want 1", got)
	}
	if tr.Len() != 1 {
		t.Errorf("len = %d after sweep, want 1", tr.Len())
	}
	// The fresh entry still enforces its window.
	if tr.Allow("b1", "!death+", now.Add(time.Second), 5*time.Second) {
		t.Error("fresh entry should still be on cooldown")
	}
}
