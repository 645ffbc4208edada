package stdlib

import (
	"fmt"
	"sync"

	"rossa/internal/eval"
	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// thread is one thread_start handle: a goroutine running a Function
// value to completion against its own trace.Stack, grounded on the
// teacher's concurrency.WorkerPool but simplified to one goroutine per
// handle rather than a pooled queue, since spec.md's Non-goals exclude
// evaluator thread-safety guarantees beyond "each thread gets an
// independent call stack."
type thread struct {
	done   chan struct{}
	result value.Value
	err    error
}

type threadPool struct {
	mu      sync.Mutex
	threads map[string]*thread
}

var threads = &threadPool{threads: make(map[string]*thread)}

// RegisterConcurrency binds the `thread` library: thread_start,
// thread_join (spec.md DOMAIN STACK table).
func RegisterConcurrency(reg *extern.Registry) {
	reg.Register("thread", "start", threadStart)
	reg.Register("thread", "join", threadJoin)
}

func threadStart(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	id, err := argString(args, 0, "thread_start")
	if err != nil {
		return value.Nil, err
	}
	if len(args) < 2 || args[1].Kind != value.KindFunction {
		return value.Nil, fmt.Errorf("thread_start: argument 2 must be a Function")
	}
	fn := args[1]
	callArgs := append([]value.Value(nil), args[2:]...)
	byRef := make([]bool, len(callArgs))

	threads.mu.Lock()
	if _, exists := threads.threads[id]; exists {
		threads.mu.Unlock()
		return value.Nil, fmt.Errorf("thread_start: thread %q already running", id)
	}
	t := &thread{done: make(chan struct{})}
	threads.threads[id] = t
	threads.mu.Unlock()

	go func() {
		defer close(t.done)
		result, _, err := eval.Invoke(fn, callArgs, byRef, at, &trace.Stack{})
		t.result, t.err = result, err
	}()

	return value.Bool(true), nil
}

// threadJoin blocks until the named thread's function returns, then
// removes the handle and surfaces its result or error.
func threadJoin(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	id, err := argString(args, 0, "thread_join")
	if err != nil {
		return value.Nil, err
	}
	threads.mu.Lock()
	t, ok := threads.threads[id]
	threads.mu.Unlock()
	if !ok {
		return value.Nil, fmt.Errorf("thread_join: no thread %q", id)
	}
	<-t.done

	threads.mu.Lock()
	delete(threads.threads, id)
	threads.mu.Unlock()

	if t.err != nil {
		return value.Nil, fmt.Errorf("thread_join: %w", t.err)
	}
	return t.result, nil
}
