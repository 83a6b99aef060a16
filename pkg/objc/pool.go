package objc

import (
	"runtime"

	"github.com/apex/log"
	"github.com/blacktop/choco/internal/shim"
)

// Pool is a pushed autorelease pool. It pins the calling goroutine to its OS thread
// until popped, since native pools are per thread.
type Pool struct {
	rt     shim.Runtime
	token  uintptr
	popped bool
}

// PushPool pushes a new autorelease pool. The caller must Pop it on the same goroutine.
func PushPool() *Pool {
	runtime.LockOSThread()
	rt := shim.Current()
	p := &Pool{rt: rt, token: rt.PoolPush()}
	log.WithField("token", p.token).Debug("pushed autorelease pool")
	return p
}

// Pop drains the pool. Popping twice is a no-op.
func (p *Pool) Pop() {
	if p.popped {
		return
	}
	p.popped = true
	p.rt.PoolPop(p.token)
	runtime.UnlockOSThread()
	log.WithField("token", p.token).Debug("popped autorelease pool")
}

// AutoreleasePool runs fn inside a fresh pool. The pool is popped even if fn panics.
func AutoreleasePool(fn func()) {
	p := PushPool()
	defer p.Pop()
	fn()
}

// WithAutoreleasePool is AutoreleasePool for functions returning a value. The result
// must not depend on objects autoreleased inside fn unless they were retained.
func WithAutoreleasePool[R any](fn func() R) R {
	p := PushPool()
	defer p.Pop()
	return fn()
}
