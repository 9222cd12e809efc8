package condwait

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestUntil_ReturnsImmediatelyIfAlreadyDone(t *testing.T) {
	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	mu.Lock()
	defer mu.Unlock()

	err := Until(context.Background(), &mu, cond, func() bool { return true })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUntil_WakesOnBroadcast(t *testing.T) {
	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	ready := false

	done := make(chan error, 1)
	go func() {
		mu.Lock()
		defer mu.Unlock()
		done <- Until(context.Background(), &mu, cond, func() bool { return ready })
	}()

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	ready = true
	mu.Unlock()
	cond.Broadcast()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Until never woke up")
	}
}

func TestUntil_ContextCancel(t *testing.T) {
	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		mu.Lock()
		defer mu.Unlock()
		done <- Until(ctx, &mu, cond, func() bool { return false })
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected a cancellation error, got nil")
		}
	case <-time.After(time.Second):
		t.Fatal("Until did not wake up after context cancel")
	}
}

func TestOnce_ContextAlreadyCanceled(t *testing.T) {
	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mu.Lock()
	defer mu.Unlock()
	if err := Once(ctx, &mu, cond); err == nil {
		t.Fatal("expected a cancellation error, got nil")
	}
}

func TestOnce_WakesOnSingleBroadcast(t *testing.T) {
	var mu sync.Mutex
	cond := sync.NewCond(&mu)

	done := make(chan error, 1)
	go func() {
		mu.Lock()
		defer mu.Unlock()
		done <- Once(context.Background(), &mu, cond)
	}()

	time.Sleep(20 * time.Millisecond)
	cond.Broadcast()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Once never woke up")
	}
}
