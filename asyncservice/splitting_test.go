package asyncservice

import (
	"context"
	"testing"
	"time"
)

func TestSplittingQueue_SameKeySerializedUntilPreviousRuns(t *testing.T) {
	q := NewSplittingQueue()

	SplittingOffer(q, "bucket-a", func() (int, error) { return 1, nil }, nil)
	SplittingOffer(q, "bucket-a", func() (int, error) { return 2, nil }, nil)

	task1, ok, err := q.Take(context.Background())
	if err != nil || !ok {
		t.Fatalf("first Take() = (_, %v, %v)", ok, err)
	}

	// The bucket is locked: the second task for the same key must not be
	// pollable yet, even though it is already queued.
	if !q.discipline.IsEmpty() {
		t.Fatal("expected discipline to report empty while bucket-a is locked")
	}

	task1.run()
	q.AfterRun(task1)

	task2, ok, err := q.Take(context.Background())
	if err != nil || !ok {
		t.Fatalf("second Take() = (_, %v, %v)", ok, err)
	}
	task2.run()
	q.AfterRun(task2)
}

func TestSplittingQueue_DifferentKeysRunConcurrently(t *testing.T) {
	q := NewSplittingQueue()

	SplittingOffer(q, "bucket-a", func() (int, error) { return 1, nil }, nil)
	SplittingOffer(q, "bucket-b", func() (int, error) { return 2, nil }, nil)

	task1, ok1, err1 := q.Take(context.Background())
	if err1 != nil || !ok1 {
		t.Fatalf("first Take() = (_, %v, %v)", ok1, err1)
	}

	// bucket-a is now locked, but bucket-b's task must still be pollable.
	task2, ok2, err2 := q.Take(context.Background())
	if err2 != nil || !ok2 {
		t.Fatalf("second Take() = (_, %v, %v)", ok2, err2)
	}

	if task1 == task2 {
		t.Fatal("expected two distinct tasks from two distinct buckets")
	}
}

func TestSplittingQueue_OfferAndPutAfterTerminateDeliverTermination(t *testing.T) {
	q := NewSplittingQueue()
	q.Terminate()

	offerTerminated := make(chan bool, 1)
	if !SplittingOffer(q, "bucket-a", func() (int, error) { return 1, nil }, CallbackFunc[int](
		nil, nil, func() { offerTerminated <- true },
	)) {
		t.Fatal("SplittingOffer against a terminated queue must still return true")
	}
	select {
	case <-offerTerminated:
	case <-time.After(time.Second):
		t.Fatal("OnTermination never fired for SplittingOffer against a terminated queue")
	}

	putTerminated := make(chan bool, 1)
	err := SplittingPut(context.Background(), q, "bucket-a", func() (int, error) { return 1, nil }, CallbackFunc[int](
		nil, nil, func() { putTerminated <- true },
	))
	if err != nil {
		t.Fatalf("SplittingPut against a terminated queue = %v, want nil", err)
	}
	select {
	case <-putTerminated:
	case <-time.After(time.Second):
		t.Fatal("OnTermination never fired for SplittingPut against a terminated queue")
	}
}

func TestSplittingQueue_PutUnderDistinctKeysNeverBlocks(t *testing.T) {
	q := NewSplittingQueue()
	for i := 0; i < 1000; i++ {
		key := i
		if err := SplittingPut(context.Background(), q, key, func() (int, error) { return key, nil }, nil); err != nil {
			t.Fatalf("SplittingPut(%d) failed: %v", key, err)
		}
	}
}
