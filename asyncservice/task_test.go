package asyncservice

import "testing"

func TestTask_RunDeliversSuccess(t *testing.T) {
	var got int
	task := newTask(func() (int, error) { return 7, nil }, CallbackFunc[int](
		func(r int) { got = r },
		func(error) { t.Error("unexpected failure") },
		func() { t.Error("unexpected termination") },
	))
	task.run()
	if got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}

func TestTask_RunDeliversFailure(t *testing.T) {
	var got error
	task := newTask(func() (int, error) { return 0, errTest }, CallbackFunc[int](
		func(int) { t.Error("unexpected success") },
		func(err error) { got = err },
		func() { t.Error("unexpected termination") },
	))
	task.run()
	if got != errTest {
		t.Errorf("got %v, want %v", got, errTest)
	}
}

func TestTask_TerminateDeliversOnlyIfNotAlreadyCompleted(t *testing.T) {
	var terminated, succeeded int
	task := newTask(func() (int, error) { return 1, nil }, CallbackFunc[int](
		func(int) { succeeded++ },
		nil,
		func() { terminated++ },
	))

	task.run()
	task.terminate() // must be a no-op: already completed

	if succeeded != 1 {
		t.Errorf("succeeded = %d, want 1", succeeded)
	}
	if terminated != 0 {
		t.Errorf("terminated = %d, want 0", terminated)
	}
}

func TestTask_TerminateBeforeRun(t *testing.T) {
	var terminated, succeeded int
	computationRan := false
	task := newTask(func() (int, error) {
		// run still executes the computation even when the task was
		// already terminated — only delivery is suppressed by the CAS.
		computationRan = true
		return 1, nil
	}, CallbackFunc[int](func(int) { succeeded++ }, nil, func() { terminated++ }))

	task.terminate()
	task.run() // must not deliver: already terminated

	if !computationRan {
		t.Error("run should still execute the computation after terminate")
	}
	if terminated != 1 {
		t.Errorf("terminated = %d, want 1", terminated)
	}
	if succeeded != 0 {
		t.Errorf("succeeded = %d, want 0 — run's outcome must be discarded once already completed", succeeded)
	}
}

func TestTask_RunRecoversPanicAsFailure(t *testing.T) {
	var got error
	task := newTask(func() (int, error) {
		panic("boom")
	}, CallbackFunc[int](
		func(int) { t.Error("unexpected success") },
		func(err error) { got = err },
		func() { t.Error("unexpected termination") },
	))

	task.run()
	if got == nil {
		t.Fatal("expected a failure delivered from the recovered panic")
	}
}
