package foundation_test

import (
	"math"
	"testing"
	"time"

	"github.com/blacktop/choco/internal/shim/sim"
	"github.com/blacktop/choco/pkg/foundation"
	"github.com/blacktop/choco/pkg/rc"
)

func TestNSNumber(t *testing.T) {
	r := setup(t)
	tests := []struct {
		name string
		num  func() *foundation.NSNumber
		typ  string
		str  string
	}{
		{"bool", func() *foundation.NSNumber { return foundation.NumberWithBool(true) }, "c", "true"},
		{"int", func() *foundation.NSNumber { return foundation.NumberWithInt(-42) }, "q", "-42"},
		{"uint", func() *foundation.NSNumber { return foundation.NumberWithUint(math.MaxUint64) }, "Q", "18446744073709551615"},
		{"double", func() *foundation.NSNumber { return foundation.NumberWithFloat(2.5) }, "d", "2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.num()
			defer n.Release()
			if n.ObjCType() != tt.typ || n.String() != tt.str {
				t.Errorf("%s: type %q, String() = %q", tt.name, n.ObjCType(), n.String())
			}
		})
	}
	zero, no := foundation.NumberWithInt(0), foundation.NumberWithBool(false)
	if zero.IsBool() || !no.IsBool() {
		t.Error("IsBool confuses zero and false")
	}
	releaseAll(zero, no)
	checkNoLeaks(t, r)
}

func TestStaticNeverReleases(t *testing.T) {
	r := setup(t)
	null := foundation.Null()
	before := r.Stats(null.Raw())
	for range 5 {
		null.Release()
	}
	if after := r.Stats(null.Raw()); after.Releases != before.Releases || !after.Live {
		t.Fatalf("static pointer reached the backend: %+v", after)
	}
	if className(null) != "NSNull" {
		t.Errorf("class = %s", className(null))
	}
}

func TestNSDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r := sim.New(sim.WithClock(func() time.Time { return now }))
	t.Cleanup(r.Install())

	d := foundation.Now()
	if !d.Time().Equal(now) || d.TimeIntervalSinceNow() != 0 {
		t.Errorf("Now() = %v", d.Time())
	}
	epoch := foundation.DateWithTimeIntervalSince1970(0)
	ref := foundation.DateWithTimeIntervalSinceReferenceDate(0)
	if got := ref.TimeIntervalSinceDate(epoch); got != 978307200 {
		t.Errorf("reference date is %v seconds after the epoch", got)
	}
	if ref.TimeIntervalSince1970() != 978307200 || epoch.TimeIntervalSinceReferenceDate() != -978307200 {
		t.Error("interval conversions")
	}
	precise := time.Date(2020, 2, 29, 1, 2, 3, 456789000, time.UTC)
	p := foundation.NSDateFromTime(precise)
	if !p.Time().Equal(precise) {
		t.Errorf("Time() = %v, want %v", p.Time(), precise)
	}
	releaseAll(d, epoch, ref, p)
	checkNoLeaks(t, r)
}

func TestNSURL(t *testing.T) {
	r := setup(t)
	tests := []struct {
		in     string
		valid  bool
		path   string
		isFile bool
	}{
		{"https://example.com/a/b?q=1", true, "/a/b", false},
		{"file:///tmp/x.txt", true, "/tmp/x.txt", true},
		{"not a url", false, "", false},
	}
	for _, tt := range tests {
		u, ok := foundation.URLWithString(tt.in)
		if ok != tt.valid {
			t.Errorf("URLWithString(%q) ok = %v", tt.in, ok)
			continue
		}
		if !ok {
			continue
		}
		if u.AbsoluteString() != tt.in || u.Path() != tt.path || u.IsFileURL() != tt.isFile {
			t.Errorf("%q: %s path=%q file=%v", tt.in, u, u.Path(), u.IsFileURL())
		}
		u.Release()
	}
	dir := foundation.FileURLWithPath("/var/tmp", true)
	if dir.String() != "file:///var/tmp/" || !dir.IsFileURL() {
		t.Errorf("FileURLWithPath = %s", dir)
	}
	dir.Release()
	checkNoLeaks(t, r)
}

func TestNSErrorIsComparable(t *testing.T) {
	r := setup(t)
	a := foundation.NewNSError("com.example", 7, "first")
	b := foundation.NewNSError("com.example", 7, "second")
	c := foundation.NewNSError("com.example", 8, "first")
	if !a.Is(b) || a.Is(c) {
		t.Error("Is compares domain and code")
	}
	if a.String() != `Error Domain=com.example Code=7 "first"` {
		t.Errorf("String() = %s", a)
	}
	if !rc.Same(a.Raw(), a.Raw()) {
		t.Error("identity")
	}
	releaseAll(a, b, c)
	checkNoLeaks(t, r)
}
