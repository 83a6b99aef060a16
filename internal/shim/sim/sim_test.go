package sim

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/rc"
)

func must(t *testing.T, p rc.NullablePtr) rc.RawPtr {
	t.Helper()
	raw, ok := p.Get()
	if !ok {
		t.Fatal("unexpected nil object")
	}
	return raw
}

func panics(t *testing.T, want string, fn func()) {
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

func TestDeallocAtZero(t *testing.T) {
	r := New()
	s := must(t, r.StringWithUTF8("hello"))
	r.ObjCRetain(s)
	r.ObjCRelease(s)
	if !r.IsLive(s) {
		t.Fatal("deallocated with an outstanding reference")
	}
	r.CFRelease(s)
	st := r.Stats(s)
	if st.Live || st.Retains != 1 || st.Releases != 2 {
		t.Fatalf("stats = %+v", st)
	}
	panics(t, "deallocated instance", func() { r.StringUTF8(s) })
	panics(t, "deallocated instance", func() { r.ObjCRelease(s) })
}

func TestImmortals(t *testing.T) {
	r := New()
	yes := must(t, r.CFBooleanTrue())
	for range 10 {
		r.CFRelease(yes)
	}
	if !r.IsLive(yes) || !r.CFBooleanGetValue(yes) {
		t.Fatal("immortal boolean released")
	}
	if got := must(t, r.NumberWithBool(true)); got != yes {
		t.Fatalf("NumberWithBool(true) = %v, want the kCFBooleanTrue singleton %v", got, yes)
	}
	if r.CFGetRetainCount(yes) != immortalRetainCount {
		t.Fatal("immortal retain count")
	}
	if r.CFGetTypeID(must(t, r.CFNull())) != r.CFNullGetTypeID() {
		t.Fatal("CFNull type id")
	}
}

func TestContainersOwnTheirElements(t *testing.T) {
	r := New()
	a := must(t, r.StringWithUTF8("a"))
	arr := must(t, r.ArrayWithObjects([]rc.RawPtr{a}))
	r.ObjCRelease(a)
	if !r.IsLive(a) || r.RefCount(a) != 1 {
		t.Fatalf("element refcount = %d", r.RefCount(a))
	}
	got := must(t, r.ArrayObjectAtIndex(arr, 0))
	if got != a || r.RefCount(a) != 2 {
		t.Fatalf("objectAtIndex: did not return a +1 reference")
	}
	r.ObjCRelease(got)
	r.ObjCRelease(arr)
	if r.IsLive(a) {
		t.Fatal("element outlived its array")
	}
	if r.LiveObjects() != 0 {
		t.Fatalf("%d objects leaked", r.LiveObjects())
	}
}

func TestObjectAtIndexOutOfBounds(t *testing.T) {
	r := New()
	arr := must(t, r.ArrayWithObjects(nil))
	panics(t, "beyond bounds for empty array", func() { r.ArrayObjectAtIndex(arr, 0) })
	one := must(t, r.ArrayByAddingObject(arr, must(t, r.CFNull())))
	panics(t, "index 3 beyond bounds [0 .. 0]", func() { r.ArrayObjectAtIndex(one, 3) })
}

func TestMutableSelectorsOnImmutable(t *testing.T) {
	r := New()
	arr := must(t, r.ArrayWithObjects(nil))
	panics(t, "-[NSArray addObject:]: unrecognized selector", func() {
		r.MutableArrayAddObject(arr, must(t, r.CFNull()))
	})
	m := must(t, r.MutableCopy(arr))
	r.MutableArrayAddObject(m, must(t, r.CFNull()))
	if r.ArrayCount(m) != 1 || r.ArrayCount(arr) != 0 {
		t.Fatal("mutable copy shares storage")
	}
	c := must(t, r.Copy(arr))
	if c != arr || r.RefCount(arr) != 2 {
		t.Fatal("copy of an immutable array should retain it")
	}
}

func enumerate(r *Runtime, obj rc.RawPtr) (out []rc.NullablePtr, rounds int) {
	var st shim.EnumState
	buf := make([]rc.NullablePtr, 16)
	for {
		n := r.CountByEnumerating(obj, &st, buf)
		if n == 0 {
			return out, rounds
		}
		rounds++
		out = append(out, st.Items[:n]...)
	}
}

func TestCountByEnumerating(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		mutable    bool
		wantRounds int
	}{
		{"empty", 0, false, 0},
		{"immutable single round", 49, false, 1},
		{"mutable one", 1, true, 1},
		{"mutable full buffer", 16, true, 1},
		{"mutable chunks", 49, true, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			objs := make([]rc.RawPtr, tt.size)
			for i := range objs {
				objs[i] = must(t, r.NumberWithInteger(int64(i)))
			}
			arr := must(t, r.ArrayWithObjects(objs))
			if tt.mutable {
				arr = must(t, r.MutableCopy(arr))
			}
			got, rounds := enumerate(r, arr)
			if rounds != tt.wantRounds {
				t.Errorf("rounds = %d, want %d", rounds, tt.wantRounds)
			}
			if len(got) != tt.size {
				t.Fatalf("enumerated %d objects, want %d", len(got), tt.size)
			}
			for i, p := range got {
				if must(t, p) != objs[i] {
					t.Fatalf("item %d out of order", i)
				}
			}
		})
	}
}

func TestMutationCounter(t *testing.T) {
	r := New()
	m := must(t, r.ClassNew(must2(t, r.ClassNamed("NSMutableArray"))))
	var st shim.EnumState
	r.CountByEnumerating(m, &st, make([]rc.NullablePtr, 16))
	before := *st.Mutations
	r.MutableArrayAddObject(m, must(t, r.CFNull()))
	if *st.Mutations == before {
		t.Fatal("addObject: did not bump the mutation counter")
	}
}

func must2(t *testing.T, p rc.NullableClassPtr) rc.ClassPtr {
	t.Helper()
	c, ok := p.Get()
	if !ok {
		t.Fatal("class not found")
	}
	return c
}

func TestDictionary(t *testing.T) {
	r := New()
	key := must(t, r.ClassNew(must2(t, r.ClassNamed("NSMutableString"))))
	val := must(t, r.NumberWithInteger(42))
	d := must(t, r.ClassNew(must2(t, r.ClassNamed("NSMutableDictionary"))))
	r.MutableDictionarySetObject(d, val, key)
	if r.RefCount(key) != 1 {
		t.Fatal("mutable key was retained instead of copied")
	}
	empty := must(t, r.StringWithUTF8(""))
	got := must(t, r.DictionaryObjectForKey(d, empty))
	if !r.IsEqual(got, val) {
		t.Fatal("lookup by an equal key failed")
	}
	r.MutableDictionaryRemoveObject(d, empty)
	if r.DictionaryCount(d) != 0 || r.DictionaryObjectForKey(d, empty) != 0 {
		t.Fatal("removeObjectForKey:")
	}
}

func TestPools(t *testing.T) {
	r := New()
	outer := r.PoolPush()
	a := must(t, r.StringWithUTF8("a"))
	r.Autorelease(a)
	r.PoolPush()
	b := must(t, r.StringWithUTF8("b"))
	r.Autorelease(b)
	r.PoolPop(outer)
	if r.IsLive(a) || r.IsLive(b) || r.PoolDepth() != 0 {
		t.Fatal("popping the outer pool must drain the inner one too")
	}
	panics(t, "out of order", func() { r.PoolPop(outer) })

	c := must(t, r.StringWithUTF8("c"))
	r.Autorelease(c)
	if leaked := r.Leaked(); len(leaked) != 1 || leaked[0] != c {
		t.Fatalf("leaked = %v", leaked)
	}
}

func TestStringWithContentsOfFile(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.txt")
	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(ok, []byte("héllo"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte{0xff, 0xfe, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name     string
		path     string
		wantCode int
	}{
		{"readable", ok, 0},
		{"missing", filepath.Join(dir, "missing.txt"), FileReadNoSuchFileError},
		{"directory", dir, FileReadUnknownError},
		{"not utf8", bad, FileReadInapplicableEncoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			pool := r.PoolPush()
			defer r.PoolPop(pool)
			var errOut rc.NullablePtr
			s := r.StringWithContentsOfFile(tt.path, &errOut)
			if tt.wantCode == 0 {
				if s.IsNil() || !errOut.IsNil() {
					t.Fatalf("value = %v, error = %v", s, errOut)
				}
				if got := r.StringUTF8(must(t, s)); got != "héllo" {
					t.Fatalf("contents = %q", got)
				}
				if r.StringLength(must(t, s)) != 5 {
					t.Fatal("length is in UTF-16 units")
				}
				return
			}
			if !s.IsNil() {
				t.Fatal("value returned alongside an error")
			}
			e := must(t, errOut)
			if r.ErrorDomain(e) != CocoaErrorDomain || r.ErrorCode(e) != tt.wantCode {
				t.Fatalf("error = %s %d", r.ErrorDomain(e), r.ErrorCode(e))
			}
			if r.RefCount(e) != 1 {
				t.Fatal("error should only be owned by the pool")
			}
		})
	}
}

func TestEqualityAndHash(t *testing.T) {
	r := New()
	a := must(t, r.StringWithUTF8(""))
	b := must(t, r.StringWithUTF8(""))
	if a == b {
		t.Fatal("distinct strings share an address")
	}
	if !r.IsEqual(a, b) || r.Hash(a) != r.Hash(b) {
		t.Fatal("equal strings must be equal and hash alike")
	}
	one := must(t, r.NumberWithInteger(1))
	oneF := must(t, r.NumberWithDouble(1))
	if !r.IsEqual(one, oneF) || r.Hash(one) != r.Hash(oneF) {
		t.Fatal("numeric equality across objCTypes")
	}
	if !r.IsEqual(one, must(t, r.NumberWithBool(true))) {
		t.Fatal("@YES isEqual:@1")
	}
	o1 := must(t, r.ClassNew(must2(t, r.ClassNamed("NSObject"))))
	o2 := must(t, r.ClassNew(must2(t, r.ClassNamed("NSObject"))))
	if r.IsEqual(o1, o2) || !r.IsEqual(o1, o1) {
		t.Fatal("NSObject equality is identity")
	}
}

func TestDescription(t *testing.T) {
	r := New()
	arr := must(t, r.ArrayWithObjects([]rc.RawPtr{
		must(t, r.StringWithUTF8("plain")),
		must(t, r.StringWithUTF8("with space")),
		must(t, r.NumberWithInteger(-3)),
	}))
	want := "(\n    plain,\n    \"with space\",\n    -3\n)"
	if got := r.StringUTF8(must(t, r.Description(arr))); got != want {
		t.Fatalf("description = %q, want %q", got, want)
	}
	var out bytes.Buffer
	r2 := New(WithOutput(&out))
	r2.CFShow(must(t, r2.CFBooleanFalse()))
	if !strings.Contains(out.String(), "{value = false}") {
		t.Fatalf("CFShow = %q", out.String())
	}
}

func TestDates(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	r := New(WithClock(func() time.Time { return now }))
	d := must(t, r.DateWithTimeIntervalSince1970(0))
	if got := r.DateTimeIntervalSinceReferenceDate(d); got != -978307200 {
		t.Fatalf("since reference date = %v", got)
	}
	n := must(t, r.DateNow())
	if got := r.DateTimeIntervalSince1970(n); got != float64(now.Unix()) {
		t.Fatalf("since 1970 = %v", got)
	}
	if got := r.DateTimeIntervalSinceNow(n); got != 0 {
		t.Fatalf("since now = %v", got)
	}
	if got := r.StringUTF8(must(t, r.Description(d))); got != "1970-01-01 00:00:00 +0000" {
		t.Fatalf("description = %q", got)
	}
}

func TestURLs(t *testing.T) {
	r := New()
	tests := []struct {
		in    string
		valid bool
	}{
		{"https://example.com/a?b=c", true},
		{"", false},
		{"not a url", false},
		{"https://exämple.com", false},
	}
	for _, tt := range tests {
		if got := !r.URLWithString(tt.in).IsNil(); got != tt.valid {
			t.Errorf("URLWithString(%q) valid = %v, want %v", tt.in, got, tt.valid)
		}
	}
	u := must(t, r.FileURLWithPath("/tmp/dir", true))
	if got := r.StringUTF8(must(t, r.URLAbsoluteString(u))); got != "file:///tmp/dir/" {
		t.Fatalf("absoluteString = %q", got)
	}
	if r.URLPath(u) != "/tmp/dir" || !r.URLIsFileURL(u) {
		t.Fatal("path / isFileURL")
	}
}

func TestClasses(t *testing.T) {
	r := New()
	widget := r.DefineClass("Widget", "NSArray", []string{"WidgetProtocol"}, []string{"spin"})
	if r.ClassName(widget) != "Widget" {
		t.Fatal("ClassName")
	}
	sup := must2(t, r.Superclass(widget))
	if r.ClassName(sup) != "NSArray" {
		t.Fatal("Superclass")
	}
	if !r.ConformsToProtocol(widget, "NSFastEnumeration") || !r.RespondsToSelector(widget, "count") {
		t.Fatal("protocols and selectors are inherited")
	}
	w := must(t, r.ClassNew(widget))
	if !r.IsKindOfClass(w, sup) || r.ArrayCount(w) != 0 {
		t.Fatal("instances inherit their superclass storage")
	}
	if _, ok := r.ClassNamed("Nope").Get(); ok {
		t.Fatal("unknown class should resolve to nil")
	}
}
