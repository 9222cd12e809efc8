package asyncservice

import (
	"context"
	"testing"
	"time"
)

func TestUnboundedQueue_OfferThenTake(t *testing.T) {
	q := NewUnboundedQueue()
	done := make(chan int, 1)

	ok := Offer(q.Sink(), func() (int, error) { return 9, nil }, CallbackFunc[int](
		func(r int) { done <- r }, nil, nil,
	))
	if !ok {
		t.Fatal("Offer failed, want success")
	}

	task, ok, err := q.Take(context.Background())
	if err != nil || !ok {
		t.Fatalf("Take() = (_, %v, %v), want (_, true, nil)", ok, err)
	}
	task.run()
	q.AfterRun(task)

	select {
	case got := <-done:
		if got != 9 {
			t.Errorf("got %d, want 9", got)
		}
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestUnboundedQueue_NeverRejectsOffer(t *testing.T) {
	q := NewUnboundedQueue()
	for i := 0; i < 10000; i++ {
		if !Offer(q.Sink(), func() (int, error) { return i, nil }, nil) {
			t.Fatalf("offer %d rejected on an unbounded queue", i)
		}
	}
}

func TestUnboundedQueue_TerminateWakesTake(t *testing.T) {
	q := NewUnboundedQueue()
	done := make(chan bool, 1)
	go func() {
		_, ok, err := q.Take(context.Background())
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	q.Terminate()

	select {
	case ok := <-done:
		if ok {
			t.Error("Take reported ok = true after terminate on an empty queue")
		}
	case <-time.After(time.Second):
		t.Fatal("Take never woke up after Terminate")
	}
}

func TestUnboundedQueue_OfferAfterTerminateReturnsTrueAndDeliversTermination(t *testing.T) {
	q := NewUnboundedQueue()
	q.Terminate()

	terminated := make(chan bool, 1)
	accepted := Offer(q.Sink(), func() (int, error) { return 1, nil }, CallbackFunc[int](
		nil, nil, func() { terminated <- true },
	))
	if !accepted {
		t.Fatal("Offer against a terminated queue must still return true: the system handled the callback contract")
	}
	select {
	case <-terminated:
	case <-time.After(time.Second):
		t.Fatal("OnTermination never fired for an Offer against a terminated queue")
	}
}

func TestUnboundedQueue_PutAfterTerminateDeliversTermination(t *testing.T) {
	q := NewUnboundedQueue()
	q.Terminate()

	terminated := make(chan bool, 1)
	err := Put(context.Background(), q.Sink(), func() (int, error) { return 1, nil }, CallbackFunc[int](
		nil, nil, func() { terminated <- true },
	))
	if err != nil {
		t.Fatalf("Put after Terminate = %v, want nil (termination is delivered via the callback)", err)
	}
	select {
	case <-terminated:
	case <-time.After(time.Second):
		t.Fatal("OnTermination never fired for a Put against a terminated queue")
	}
}

