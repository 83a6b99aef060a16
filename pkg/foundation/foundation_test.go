package foundation_test

import (
	"strings"
	"testing"

	"github.com/blacktop/choco/internal/shim/sim"
	"github.com/blacktop/choco/pkg/objc"
	"github.com/blacktop/choco/pkg/rc"
)

func setup(t *testing.T) *sim.Runtime {
	t.Helper()
	r := sim.New()
	t.Cleanup(r.Install())
	return r
}

// checkNoLeaks fails when mortal objects survive the test body.
func checkNoLeaks(t *testing.T, r *sim.Runtime) {
	t.Helper()
	if n := r.LiveObjects(); n != 0 {
		t.Fatalf("%d objects still alive", n)
	}
}

func expectPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		if msg, _ := r.(string); !strings.Contains(msg, want) {
			t.Fatalf("panic = %v, want %q", r, want)
		}
	}()
	fn()
}

func releaseAll[T interface{ Release() }](objs ...T) {
	for _, o := range objs {
		o.Release()
	}
}

func className(obj objc.Object) string {
	return objc.ClassName(objcClass(obj))
}

func objcClass(obj objc.Object) rc.ClassPtr {
	return obj.(interface{ Class() rc.ClassPtr }).Class()
}
