package objc_test

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

func TestNewNSObject(t *testing.T) {
	r := setup(t)
	o := objc.NewNSObject()
	raw := o.Raw()
	if got := r.RefCount(raw); got != 1 {
		t.Fatalf("RefCount() = %d, want 1", got)
	}
	if d := o.Description(); !strings.HasPrefix(d, "<NSObject: 0x") {
		t.Errorf("Description() = %q", d)
	}
	if o.String() != o.Description() {
		t.Error("String() differs from Description()")
	}
	o.Release()
	if r.IsLive(raw) {
		t.Fatal("object survived its only release")
	}
	if r.LiveObjects() != 0 {
		t.Fatalf("leaked %d objects", r.LiveObjects())
	}
	if got := o.String(); got != "<NSObject: invalid>" {
		t.Errorf("String() after Release = %q", got)
	}
}

func TestRetainIndependentOwners(t *testing.T) {
	r := setup(t)
	a := objc.NewNSObject()
	b := a.Retain()
	if !rc.Same(a.Raw(), b.Raw()) {
		t.Fatal("Retain returned a different object")
	}
	a.Release()
	if !r.IsLive(b.Raw()) {
		t.Fatal("second owner lost its object")
	}
	raw := b.Raw()
	b.Release()
	st := r.Stats(raw)
	if st.Live || st.Retains != 1 || st.Releases != 2 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestEqualityAndIdentity(t *testing.T) {
	setup(t)
	a, b := objc.NewNSObject(), objc.NewNSObject()
	defer a.Release()
	defer b.Release()
	if !a.IsEqual(a) || !objc.IsEqual(a, a) {
		t.Error("object not equal to itself")
	}
	if a.IsEqual(b) {
		t.Error("distinct NSObjects compare equal")
	}
	if a.Hash() != objc.Hash(a) {
		t.Error("Hash mismatch")
	}
}

func TestIsKindOf(t *testing.T) {
	r := setup(t)
	widget := r.DefineClass("Widget", "NSObject", []string{"NSCopying"}, []string{"spin"})
	w := objc.New[*objc.NSObject](widget)
	defer w.Release()
	o := objc.NewNSObject()
	defer o.Release()

	tests := []struct {
		name string
		obj  objc.Object
		cls  rc.ClassPtr
		want bool
	}{
		{"widget is a widget", w, widget, true},
		{"widget is an NSObject", w, objc.MustClass("NSObject"), true},
		{"NSObject is not a widget", o, widget, false},
		{"widget is not an NSArray", w, objc.MustClass("NSArray"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := objc.IsKindOf(tt.obj, tt.cls); got != tt.want {
				t.Errorf("IsKindOf() = %v, want %v", got, tt.want)
			}
		})
	}
	if objc.ClassName(w.Class()) != "Widget" {
		t.Errorf("Class() = %s", objc.ClassName(w.Class()))
	}
}

type spinnerKind interface {
	objc.Object
	KindOfSpinner()
}

func TestAdopt(t *testing.T) {
	r := setup(t)
	widget := r.DefineClass("Widget", "NSObject", nil, nil)

	raw, _ := r.ClassNew(widget).Get()
	k := objc.Adopt[objc.NSObjectKind](raw)
	if _, ok := k.(*objc.NSObject); !ok {
		t.Fatalf("Adopt by class built %T", k)
	}
	if r.RefCount(raw) != 1 {
		t.Fatalf("Adopt changed the reference count to %d", r.RefCount(raw))
	}

	other := objc.RetainAs[*objc.NSObject](raw)
	if r.RefCount(raw) != 2 {
		t.Fatalf("RetainAs left the reference count at %d", r.RefCount(raw))
	}
	other.Release()
	k.(*objc.NSObject).Release()
	if r.IsLive(raw) {
		t.Fatal("unbalanced adoption")
	}

	raw, _ = r.ClassNew(widget).Get()
	expectPanic(t, "no wrapper registered", func() { objc.Adopt[spinnerKind](raw) })
	r.ObjCRelease(raw)
}

func TestClasses(t *testing.T) {
	r := setup(t)
	if _, ok := objc.ClassNamed("Gadget"); ok {
		t.Fatal("found an undefined class")
	}
	r.DefineClass("Gadget", "NSMutableArray", []string{"NSCoding"}, []string{"zap", "boop"})
	cls, ok := objc.ClassNamed("Gadget")
	if !ok {
		t.Fatal("a miss was cached")
	}
	if again, _ := objc.ClassNamed("Gadget"); again != cls {
		t.Fatal("cached class differs")
	}

	want := []string{"Gadget", "NSMutableArray", "NSArray", "NSObject"}
	if got := objc.Hierarchy(cls); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Hierarchy() = %v, want %v", got, want)
	}
	if !objc.ConformsToProtocol(cls, "NSFastEnumeration") || !objc.ConformsToProtocol(cls, "NSCoding") {
		t.Error("inherited or declared protocol missing")
	}
	if !objc.RespondsToSelector(cls, "count") || objc.RespondsToSelector(cls, "spin") {
		t.Error("RespondsToSelector")
	}
	if _, ok := objc.Superclass(objc.MustClass("NSObject")); ok {
		t.Error("NSObject has a superclass")
	}

	info, err := objc.Inspect("Gadget")
	if err != nil {
		t.Fatal(err)
	}
	if info.Selectors[0] != "boop" || len(info.Hierarchy) != 4 {
		t.Errorf("Inspect() = %+v", info)
	}
	if _, err := objc.Inspect("Nope"); err == nil {
		t.Error("Inspect of a missing class succeeded")
	}
	expectPanic(t, "class Nope not found", func() { objc.MustClass("Nope") })
}

func TestAutoreleasePool(t *testing.T) {
	r := setup(t)
	var raw rc.RawPtr
	objc.AutoreleasePool(func() {
		raw, _ = r.ClassNew(objc.MustClass("NSObject")).Get()
		r.Autorelease(raw)
		if !r.IsLive(raw) {
			t.Fatal("autoreleased object died before the pool drained")
		}
	})
	if r.IsLive(raw) || r.PoolDepth() != 0 {
		t.Fatal("pool was not drained")
	}

	n := objc.WithAutoreleasePool(func() int { return r.PoolDepth() })
	if n != 1 {
		t.Errorf("depth inside pool = %d", n)
	}
}

func TestAutoreleasePoolPopsOnPanic(t *testing.T) {
	r := setup(t)
	var raw rc.RawPtr
	func() {
		defer func() { recover() }()
		objc.AutoreleasePool(func() {
			raw, _ = r.ClassNew(objc.MustClass("NSObject")).Get()
			r.Autorelease(raw)
			panic("boom")
		})
	}()
	if r.IsLive(raw) || r.PoolDepth() != 0 {
		t.Fatal("pool was not popped while unwinding")
	}
}

func TestPoolPopTwice(t *testing.T) {
	r := setup(t)
	p := objc.PushPool()
	p.Pop()
	p.Pop()
	if r.PoolDepth() != 0 {
		t.Fatal("unbalanced pool")
	}
}

func TestNonNull(t *testing.T) {
	expectPanic(t, "expecting -[NSArray objectAtIndex:] to return a non null pointer", func() {
		objc.NonNull(rc.Nullable(0), "-[NSArray objectAtIndex:]")
	})
}
