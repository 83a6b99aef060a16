package rc

import "fmt"

// TypeKind selects the native retain/release pair governing a type.
type TypeKind uint8

const (
	// ObjC objects are retained with objc_retain and released with objc_release.
	ObjC TypeKind = iota + 1
	// CF objects are retained with CFRetain and released with CFRelease.
	CF
)

func (k TypeKind) String() string {
	switch k {
	case ObjC:
		return "objc"
	case CF:
		return "cf"
	default:
		return fmt.Sprintf("TypeKind(%d)", uint8(k))
	}
}

// Type is implemented by the zero-size tag types naming bindable native types.
type Type interface {
	TypeKind() TypeKind
}

func kindOf[T Type]() TypeKind {
	var t T
	return t.TypeKind()
}
