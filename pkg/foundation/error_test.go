package foundation_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/blacktop/choco/pkg/foundation"
	"github.com/blacktop/choco/pkg/rc"
)

func TestMakeObjectResult(t *testing.T) {
	tests := []struct {
		name      string
		withValue bool
		withError bool
		wantErr   bool
	}{
		{"value only", true, false, false},
		{"error only", false, true, true},
		{"value and error", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setup(t)
			var value, unowned rc.NullablePtr
			if tt.withValue {
				value = r.StringWithUTF8("value")
			}
			if tt.withError {
				unowned = r.ErrorWithDomain(foundation.NSCocoaErrorDomain, 4, "boom")
			}

			got, err := foundation.MakeObjectResult[*foundation.NSString](value, unowned)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if raw, ok := value.Get(); ok {
				st := r.Stats(raw)
				if tt.wantErr && (st.Live || st.Releases != 1) {
					t.Errorf("discarded value stats = %+v, want released exactly once", st)
				}
				if !tt.wantErr {
					if got == nil || got.String() != "value" {
						t.Fatalf("got %v", got)
					}
					got.Release()
				}
			}
			if raw, ok := unowned.Get(); ok {
				var nsErr *foundation.NSError
				if !errors.As(err, &nsErr) {
					t.Fatalf("error %T is not an *NSError", err)
				}
				if nsErr.Code() != 4 || nsErr.Error() != "boom" {
					t.Errorf("error = %s", nsErr)
				}
				if r.RefCount(raw) != 2 {
					t.Errorf("error was not retained: %d references", r.RefCount(raw))
				}
				nsErr.Release()
				r.ObjCRelease(raw)
			}
			checkNoLeaks(t, r)
		})
	}
}

func TestMakeObjectResultNeitherIsFatal(t *testing.T) {
	setup(t)
	expectPanic(t, "got neither", func() {
		foundation.MakeObjectResult[*foundation.NSString](rc.Nullable(0), rc.Nullable(0))
	})
}

func TestMakeValueResult(t *testing.T) {
	r := setup(t)
	v, err := foundation.MakeValueResult(true, rc.Nullable(0))
	if err != nil || !v {
		t.Fatalf("MakeValueResult = %v, %v", v, err)
	}
	unowned := r.ErrorWithDomain("com.example", 1, "nope")
	v, err = foundation.MakeValueResult(true, unowned)
	if err == nil || v {
		t.Fatalf("MakeValueResult = %v, %v", v, err)
	}
	err.(*foundation.NSError).Release()
	raw, _ := unowned.Get()
	r.ObjCRelease(raw)
	checkNoLeaks(t, r)
}

func TestNSStringWithContentsOfFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(good, []byte("contents"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte{0xff, 0xfe, 0xfd}, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		want     string
		wantCode int
	}{
		{"readable", good, "contents", 0},
		{"missing", filepath.Join(dir, "missing.txt"), "", foundation.NSFileReadNoSuchFileError},
		{"not utf-8", bad, "", foundation.NSFileReadInapplicableStringEncodingError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setup(t)
			s, err := foundation.NSStringWithContentsOfFile(tt.path)
			if tt.wantCode == 0 {
				if err != nil {
					t.Fatal(err)
				}
				if s.String() != tt.want {
					t.Errorf("read %q", s)
				}
				s.Release()
			} else {
				if s != nil {
					t.Fatal("value returned alongside an error")
				}
				var nsErr *foundation.NSError
				if !errors.As(err, &nsErr) {
					t.Fatalf("error %v does not wrap an *NSError", err)
				}
				probe := foundation.NewNSError(foundation.NSCocoaErrorDomain, tt.wantCode, "")
				if !errors.Is(err, probe) || nsErr.Domain() != foundation.NSCocoaErrorDomain {
					t.Errorf("error = %s, want code %d", nsErr, tt.wantCode)
				}
				releaseAll(nsErr, probe)
			}
			if r.PoolDepth() != 0 || len(r.Leaked()) != 0 {
				t.Error("autoreleased error escaped its pool")
			}
			checkNoLeaks(t, r)
		})
	}
}
