package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// hold occupies one slot until release is closed.
func hold(t *testing.T, b *Bulkhead) (release func(), done <-chan struct{}) {
	t.Helper()
	started := make(chan struct{})
	rel := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-rel
			return nil
		})
	}()
	<-started
	return func() { close(rel) }, finished
}

func TestBulkhead_AllowsRequestsWithinLimit(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "inference", MaxConcurrent: 3})

	var calls int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				atomic.AddInt32(&calls, 1)
				time.Sleep(10 * time.Millisecond)
				return nil
			})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}
	wg.Wait()
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	var rejected int32
	b := NewBulkhead(BulkheadConfig{
		Name:          "inference",
		MaxConcurrent: 1,
		OnReject:      func(string) { atomic.AddInt32(&rejected, 1) },
	})
	release, done := hold(t, b)

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadFull) || !IsRejection(err) {
		t.Errorf("expected ErrBulkheadFull, got %v", err)
	}
	if atomic.LoadInt32(&rejected) != 1 {
		t.Errorf("expected OnReject to fire once, got %d", rejected)
	}
	release()
	<-done
}

func TestBulkhead_WaitsForSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: time.Second})
	release, done := hold(t, b)
	go func() {
		time.Sleep(20 * time.Millisecond)
		release()
	}()

	if err := b.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Errorf("expected queued call to succeed, got %v", err)
	}
	<-done
}

func TestBulkhead_TimesOutWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: 10 * time.Millisecond})
	release, done := hold(t, b)

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("expected ErrBulkheadTimeout, got %v", err)
	}
	release()
	<-done
}

func TestBulkhead_RespectsContext(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: time.Second})
	release, done := hold(t, b)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := b.Execute(ctx, func() error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	if IsRejection(err) {
		t.Error("context errors are not rejections")
	}
	release()
	<-done
}

func TestBulkhead_SlotAccounting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{})
	if b.MaxConcurrent() != defaultMaxConcurrent || b.Available() != defaultMaxConcurrent {
		t.Fatalf("unexpected defaults: max=%d available=%d", b.MaxConcurrent(), b.Available())
	}
	release, done := hold(t, b)
	if b.InUse() != 1 {
		t.Errorf("expected 1 in use, got %d", b.InUse())
	}
	release()
	<-done
	if b.InUse() != 0 {
		t.Errorf("expected slot released, got %d in use", b.InUse())
	}
}

func TestBulkhead_PropagatesError(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})
	want := errors.New("sidecar 500")
	if err := b.Execute(context.Background(), func() error { return want }); !errors.Is(err, want) {
		t.Errorf("expected fn error, got %v", err)
	}
}
