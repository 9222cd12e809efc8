package asyncservice

import (
	"context"
	"fmt"
	"runtime"
	"strings"
)

// Threading configures how a WorkerPool names and launches its worker
// goroutines, the Go counterpart of the Java original's Threading helper
// (which built named ThreadFactory instances for a fixed-size executor).
type Threading struct {
	// Count is the number of worker goroutines to run. Must be >= 1.
	Count int

	// NameFormat is used with fmt.Sprintf and a single %d worker index
	// (0-based) to name each worker for logging. Defaults to
	// "worker-%d" if empty.
	NameFormat string

	// Parent, if non-nil, is the context each worker's run loop derives
	// its cancellation from, in addition to the WorkerPool's own
	// shutdown signal.
	Parent context.Context
}

// DefaultThreads returns a Threading running n workers, or
// runtime.NumCPU() workers if n <= 0 — the Go counterpart of the Java
// original's Threading.defaultThreads(int), whose zero/negative count
// falls back to Runtime.availableProcessors().
func DefaultThreads(n int) Threading {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return Threading{Count: n}
}

// SingleThread returns a Threading configured for exactly one worker
// named name. The Go counterpart of the Java original's
// Threading.singleThread(String).
func SingleThread(name string) Threading {
	return Threading{Count: 1, NameFormat: name}
}

// FormatThreadNames returns a Threading configured for count workers,
// named using nameFormat (a fmt.Sprintf pattern taking one %d).
func FormatThreadNames(count int, nameFormat string) Threading {
	return Threading{Count: count, NameFormat: nameFormat}
}

func (t Threading) threadName(index int) string {
	format := t.NameFormat
	if format == "" {
		format = "worker-%d"
	}
	if !strings.Contains(format, "%") {
		// A bare name, as given to SingleThread — there is exactly one
		// worker, so no index needs substituting in.
		return format
	}
	return fmt.Sprintf(format, index)
}

func (t Threading) context() context.Context {
	if t.Parent != nil {
		return t.Parent
	}
	return context.Background()
}
