//go:build !darwin || !cgo

package shim

// Native reports that no native runtime exists on this platform.
func Native() (Runtime, bool) {
	return nil, false
}
