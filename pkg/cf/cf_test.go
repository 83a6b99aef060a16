package cf_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/blacktop/choco/internal/shim/sim"
	"github.com/blacktop/choco/pkg/cf"
	"github.com/blacktop/choco/pkg/objc"
)

func setup(t *testing.T, opts ...sim.Option) *sim.Runtime {
	t.Helper()
	r := sim.New(opts...)
	t.Cleanup(r.Install())
	return r
}

func TestString(t *testing.T) {
	r := setup(t)
	s := cf.NewString("héllo")
	if s.String() != "héllo" {
		t.Errorf("String() = %q", s.String())
	}
	if s.TypeID() != cf.StringTypeID() {
		t.Error("type id is not CFString")
	}
	if s.RetainCount() != 1 {
		t.Errorf("RetainCount() = %d", s.RetainCount())
	}

	dup := s.Retain()
	if s.RetainCount() != 2 {
		t.Errorf("RetainCount() after Retain = %d", s.RetainCount())
	}
	other := cf.NewString("héllo")
	if !cf.Equal(s, other) || s.Hash() != other.Hash() {
		t.Error("equal strings compare unequal")
	}

	raw := s.Raw()
	for _, p := range []*cf.String{s, dup, other} {
		p.Release()
	}
	st := r.Stats(raw)
	if st.Live || st.Retains != 1 || st.Releases != 2 {
		t.Fatalf("stats = %+v", st)
	}
	if r.LiveObjects() != 0 {
		t.Fatalf("leaked %d objects", r.LiveObjects())
	}
}

func TestBooleanIsStatic(t *testing.T) {
	r := setup(t)
	tests := []struct {
		in   bool
		want string
	}{
		{true, "true"},
		{false, "false"},
	}
	for _, tt := range tests {
		b := cf.BooleanOf(tt.in)
		before := r.Stats(b.Raw())
		for range 3 {
			b.Release()
		}
		if b.Value() != tt.in || b.String() != tt.want {
			t.Errorf("BooleanOf(%v) = %v", tt.in, b)
		}
		if after := r.Stats(b.Raw()); after.Releases != before.Releases {
			t.Error("releasing a static boolean reached the backend")
		}
		if b.TypeID() != cf.BooleanTypeID() {
			t.Error("type id is not CFBoolean")
		}
	}
	if !cf.Equal(cf.True(), cf.BooleanOf(true)) || cf.Equal(cf.True(), cf.False()) {
		t.Error("boolean singletons")
	}
}

func TestNull(t *testing.T) {
	setup(t)
	n := cf.Null()
	n.Release()
	if n.TypeID() != cf.NullTypeID() || n.String() != "<null>" {
		t.Error("kCFNull")
	}
}

func TestDescriptionAndShow(t *testing.T) {
	var out bytes.Buffer
	r := setup(t, sim.WithOutput(&out))
	s := cf.NewString("abc")
	defer s.Release()

	if d := s.Description(); !strings.HasPrefix(d, "<CFString 0x") || !strings.HasSuffix(d, `{contents = "abc"}`) {
		t.Errorf("Description() = %q", d)
	}
	s.Show()
	cf.Show(cf.False())
	if got := out.String(); !strings.HasPrefix(got, "abc\n<CFBoolean 0x") || !strings.HasSuffix(got, "{value = false}\n") {
		t.Errorf("Show() wrote %q", got)
	}
	if r.LiveObjects() != 1 {
		t.Errorf("description strings leaked: %d live", r.LiveObjects())
	}
}

func TestAdoptThroughRegistry(t *testing.T) {
	r := setup(t)
	raw, _ := r.CFStringCreate("owned").Get()
	s := objc.Adopt[*cf.String](raw)
	if s.String() != "owned" {
		t.Fatalf("adopted %q", s)
	}
	ref := objc.RetainAs[*cf.Ref](raw)
	if ref.TypeID() != cf.StringTypeID() || s.RetainCount() != 2 {
		t.Fatal("RetainAs did not take a CF reference")
	}
	ref.Release()
	s.Release()
	if r.IsLive(raw) {
		t.Fatal("unbalanced CF adoption")
	}
}
