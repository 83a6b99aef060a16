package rc

import (
	"runtime"
	"sync/atomic"

	"github.com/apex/log"
)

var leakCheck atomic.Bool

// SetLeakCheck toggles reporting of Retained wrappers that are garbage collected
// while still owning their increment. It only affects wrappers created afterwards.
func SetLeakCheck(enabled bool) {
	leakCheck.Store(enabled)
}

// LeakCheck reports whether leak reporting is enabled.
func LeakCheck() bool {
	return leakCheck.Load()
}

func trackLeak[P any](p *P, st *state) {
	if !leakCheck.Load() {
		return
	}
	runtime.AddCleanup(p, reportLeak, st)
}

// reportLeak only logs; the increment stays owned by nobody.
func reportLeak(st *state) {
	if st.phase != live {
		return
	}
	log.WithFields(log.Fields{
		"ptr":  st.raw.String(),
		"kind": st.kind.String(),
	}).Warn("rc: retained pointer collected without Release")
}
