package rc

// Ownership is the set of ownership policies a Ptr can carry.
type Ownership interface {
	Retained | Static | Borrowed
	owns() bool
	name() string
}

// Retained marks a wrapper owning one reference count increment.
type Retained struct{}

// Static marks a wrapper over an immortal object.
type Static struct{}

// Borrowed marks a wrapper valid only for the scope that produced it.
type Borrowed struct{}

func (Retained) owns() bool { return true }
func (Static) owns() bool   { return false }
func (Borrowed) owns() bool { return false }

func (Retained) name() string { return "retained" }
func (Static) name() string   { return "static" }
func (Borrowed) name() string { return "borrowed" }
