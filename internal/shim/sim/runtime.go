// Package sim is an Objective-C and Core Foundation runtime simulated in Go.
//
// It implements shim.Runtime with real reference counts: objects are deallocated when
// their count drops to zero and any later message to them panics. Every retain and
// release reaching it through rc.Backend is counted per object so callers can assert
// that their bookkeeping is balanced.
package sim

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/rc"
)

const (
	baseAddr  uintptr = 0x600000000000
	classBase uintptr = 0x1e0000000
	addrStep  uintptr = 0x10
)

// retain count CF reports for immortal objects
const immortalRetainCount = math.MaxInt64 >> 3

var _ shim.Runtime = (*Runtime)(nil)

type object struct {
	addr      uintptr
	cls       *class
	refs      int
	immortal  bool
	retains   int
	releases  int
	mutations uintptr

	str    string
	num    number
	date   float64
	err    nsError
	items  []rc.NullablePtr
	values []rc.NullablePtr
}

// Runtime is a simulated runtime. The zero value is not usable, call New.
type Runtime struct {
	mu sync.Mutex

	next      uintptr
	nextClass uintptr
	objects   map[uintptr]*object
	dead      map[uintptr]*object
	classes   map[string]*class
	byAddr    map[uintptr]*class
	pools     [][]uintptr
	leaked    []uintptr
	deallocs  int

	trueObj, falseObj, nullObj *object

	now func() time.Time
	out io.Writer
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithClock sets the clock used by NSDate.
func WithClock(now func() time.Time) Option {
	return func(r *Runtime) {
		r.now = now
	}
}

// WithOutput sets where CFShow writes. It defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.out = w
	}
}

// New creates a runtime with the Foundation class hierarchy registered.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		next:      baseAddr,
		nextClass: classBase,
		objects:   make(map[uintptr]*object),
		dead:      make(map[uintptr]*object),
		classes:   make(map[string]*class),
		byAddr:    make(map[uintptr]*class),
		now:       time.Now,
		out:       os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.bootstrap()
	return r
}

// Install makes r the process runtime and returns a func restoring the previous one.
func (r *Runtime) Install() (restore func()) {
	return shim.Use(r)
}

func (r *Runtime) alloc(cls *class) *object {
	o := &object{addr: r.next, cls: cls, refs: 1}
	r.next += addrStep
	r.objects[o.addr] = o
	return o
}

func (r *Runtime) immortal(cls *class) *object {
	o := r.alloc(cls)
	o.immortal = true
	return o
}

func (r *Runtime) get(p rc.RawPtr) *object {
	if o, ok := r.objects[p.Addr()]; ok {
		return o
	}
	if o, ok := r.dead[p.Addr()]; ok {
		panic(fmt.Sprintf("sim: message sent to deallocated instance %#x of class %s", p.Addr(), o.cls.name))
	}
	panic(fmt.Sprintf("sim: %#x is not an object", p.Addr()))
}

func (r *Runtime) getN(p rc.NullablePtr) *object {
	raw, ok := p.Get()
	if !ok {
		panic("sim: unexpected nil object")
	}
	return r.get(raw)
}

func (o *object) ptr() rc.NullablePtr {
	return rc.Nullable(o.addr)
}

func (r *Runtime) retainLocked(o *object) *object {
	if !o.immortal {
		o.refs++
	}
	return o
}

func (r *Runtime) releaseLocked(o *object) {
	if o.immortal {
		return
	}
	o.refs--
	switch {
	case o.refs == 0:
		r.dealloc(o)
	case o.refs < 0:
		panic(fmt.Sprintf("sim: over-release of %#x (%s)", o.addr, o.cls.name))
	}
}

func (r *Runtime) dealloc(o *object) {
	log.WithFields(log.Fields{"addr": fmt.Sprintf("%#x", o.addr), "class": o.cls.name}).Debug("sim: dealloc")
	delete(r.objects, o.addr)
	r.dead[o.addr] = o
	r.deallocs++
	children := append(append([]rc.NullablePtr(nil), o.items...), o.values...)
	o.items, o.values = nil, nil
	for _, c := range children {
		r.releaseLocked(r.getN(c))
	}
}

func (r *Runtime) autoreleaseLocked(o *object) {
	if len(r.pools) == 0 {
		log.WithField("addr", fmt.Sprintf("%#x", o.addr)).Warn("sim: object autoreleased with no pool in place - just leaking")
		r.leaked = append(r.leaked, o.addr)
		return
	}
	top := len(r.pools) - 1
	r.pools[top] = append(r.pools[top], o.addr)
}

/* rc.Backend */

func (r *Runtime) ObjCRetain(p rc.RawPtr) rc.NullablePtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.get(p)
	o.retains++
	return r.retainLocked(o).ptr()
}

func (r *Runtime) ObjCRelease(p rc.RawPtr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.get(p)
	o.releases++
	r.releaseLocked(o)
}

// CF objects are toll-free bridged, they share the counts of their ObjC side.

func (r *Runtime) CFRetain(p rc.RawPtr) rc.NullablePtr {
	return r.ObjCRetain(p)
}

func (r *Runtime) CFRelease(p rc.RawPtr) {
	r.ObjCRelease(p)
}

/* autorelease pools */

func (r *Runtime) PoolPush() uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools = append(r.pools, nil)
	return uintptr(len(r.pools))
}

// PoolPop drains every pool pushed since token, innermost first.
func (r *Runtime) PoolPop(token uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token == 0 || int(token) > len(r.pools) {
		panic(fmt.Sprintf("sim: pool token %d out of order (depth %d)", token, len(r.pools)))
	}
	for len(r.pools) >= int(token) {
		top := len(r.pools) - 1
		pending := r.pools[top]
		r.pools = r.pools[:top]
		log.WithField("objects", len(pending)).Debug("sim: draining autorelease pool")
		for _, addr := range pending {
			r.releaseLocked(r.get(mustRaw(addr)))
		}
	}
}

func mustRaw(addr uintptr) rc.RawPtr {
	p, ok := rc.Nullable(addr).Get()
	if !ok {
		panic("sim: nil address")
	}
	return p
}

// Autorelease adds an owned increment of p to the innermost pool.
func (r *Runtime) Autorelease(p rc.RawPtr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.autoreleaseLocked(r.get(p))
}

// PoolDepth returns the number of pushed pools.
func (r *Runtime) PoolDepth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pools)
}

/* accounting */

// Stats is the reference count history of one object.
type Stats struct {
	RefCount int
	Retains  int
	Releases int
	Live     bool
}

// Stats returns the counts for p, including after it was deallocated.
func (r *Runtime) Stats(p rc.RawPtr) Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.objects[p.Addr()]; ok {
		return Stats{RefCount: o.refs, Retains: o.retains, Releases: o.releases, Live: true}
	}
	if o, ok := r.dead[p.Addr()]; ok {
		return Stats{Retains: o.retains, Releases: o.releases}
	}
	panic(fmt.Sprintf("sim: %#x is not an object", p.Addr()))
}

// RefCount returns the current reference count of p, zero once deallocated.
func (r *Runtime) RefCount(p rc.RawPtr) int {
	return r.Stats(p).RefCount
}

// IsLive reports whether p has not been deallocated.
func (r *Runtime) IsLive(p rc.RawPtr) bool {
	return r.Stats(p).Live
}

// LiveObjects returns the number of live mortal objects.
func (r *Runtime) LiveObjects() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.objects {
		if !o.immortal {
			n++
		}
	}
	return n
}

// Deallocs returns the number of objects deallocated so far.
func (r *Runtime) Deallocs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deallocs
}

// Leaked returns the objects autoreleased while no pool was in place.
func (r *Runtime) Leaked() []rc.RawPtr {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]rc.RawPtr, 0, len(r.leaked))
	for _, addr := range r.leaked {
		out = append(out, mustRaw(addr))
	}
	return out
}
