package phaser

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestArriveAndAwaitAdvance_WaitsForAllParties(t *testing.T) {
	p := New(3)

	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func() {
			defer wg.Done()
			phase, err := p.ArriveAndAwaitAdvance(context.Background())
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if phase != 1 {
				t.Errorf("phase = %d, want 1", phase)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("not all parties advanced")
	}
}

func TestAwaitAdvance_DoesNotCountAsArrival(t *testing.T) {
	p := New(2)

	waiterDone := make(chan error, 1)
	go func() {
		_, err := p.AwaitAdvance(context.Background(), 0)
		waiterDone <- err
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-waiterDone:
		t.Fatal("AwaitAdvance returned before any party arrived")
	default:
	}

	p.Arrive()
	time.Sleep(20 * time.Millisecond)
	select {
	case <-waiterDone:
		t.Fatal("AwaitAdvance returned after only one of two parties arrived")
	default:
	}

	p.Arrive()
	select {
	case err := <-waiterDone:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("AwaitAdvance never returned after both parties arrived")
	}
}

func TestArriveAndDeregister_ShrinksPartiesForNextPhase(t *testing.T) {
	p := New(2)

	// Phase 0 -> 1: both parties arrive normally.
	phase, err := p.ArriveAndAwaitAdvance(context.Background())
	if err != nil || phase != 0 {
		t.Fatalf("first arrival: phase=%d err=%v, want 0, nil", phase, err)
	}
	phase, err = p.ArriveAndAwaitAdvance(context.Background())
	if err != nil || phase != 1 {
		t.Fatalf("second arrival: phase=%d err=%v, want 1, nil", phase, err)
	}

	// One party deregisters; the remaining single party alone should now
	// be enough to advance phase 1 -> 2.
	phase = p.ArriveAndDeregister()
	if phase != 1 {
		t.Fatalf("deregistering arrival phase = %d, want 1", phase)
	}
	if p.Phase() != 2 {
		t.Fatalf("phase after sole remaining party's deregistration = %d, want 2", p.Phase())
	}
}

func TestForceTermination_ReleasesWaiters(t *testing.T) {
	p := New(2)

	done := make(chan int, 1)
	go func() {
		phase, _ := p.ArriveAndAwaitAdvance(context.Background())
		done <- phase
	}()

	time.Sleep(20 * time.Millisecond)
	p.ForceTermination()

	select {
	case phase := <-done:
		if phase != -1 {
			t.Errorf("phase after force termination = %d, want -1", phase)
		}
	case <-time.After(time.Second):
		t.Fatal("waiter never released after ForceTermination")
	}

	if phase := p.Arrive(); phase != -1 {
		t.Errorf("Arrive after termination = %d, want -1", phase)
	}
}

func TestAwaitAdvance_ContextCancel(t *testing.T) {
	p := New(2)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := p.AwaitAdvance(ctx, 0)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected a cancellation error, got nil")
		}
	case <-time.After(time.Second):
		t.Fatal("AwaitAdvance did not wake up after context cancel")
	}
}
