/*
Package rc implements the ownership model used to hold Objective-C and Core Foundation
objects from Go.

A native object is reached through a RawPtr, a non-null handle with no ownership attached.
Ptr wraps a RawPtr and records, in its type, which native ABI governs the object (the
TypeKind of its tag type T) and who is accountable for its reference count (the ownership
policy O):

	Retained  the wrapper owns exactly one increment and gives it back on Release
	Static    the object is immortal, Release does nothing
	Borrowed  the object is only valid inside the callback passed to Borrow

Go has no destructors, so owners release explicitly:

	s := rc.Own[NSStringType](raw)
	defer s.Release()

Releasing the same increment twice, or using a wrapper after its increment was released,
moved out with Detach or its borrow scope ended, panics.
*/
package rc
