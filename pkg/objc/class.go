package objc

import (
	"sort"

	"github.com/apex/log"
	"github.com/blacktop/choco/internal/shim"
	"github.com/blacktop/choco/pkg/rc"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

const classCacheSize = 512

type classKey struct {
	rt   shim.Runtime
	name string
}

var classCache, _ = lru.New[classKey, rc.ClassPtr](classCacheSize)

// ClassNamed looks up a class by name. Hits are cached per runtime; misses are not,
// since classes can be registered later.
func ClassNamed(name string) (rc.ClassPtr, bool) {
	rt := shim.Current()
	key := classKey{rt: rt, name: name}
	if cls, ok := classCache.Get(key); ok {
		return cls, true
	}
	cls, ok := rt.ClassNamed(name).Get()
	if !ok {
		return rc.ClassPtr{}, false
	}
	classCache.Add(key, cls)
	return cls, true
}

// MustClass is like ClassNamed but panics if the class does not exist.
func MustClass(name string) rc.ClassPtr {
	cls, ok := ClassNamed(name)
	if !ok {
		panic("objc: class " + name + " not found")
	}
	return cls
}

func ClassName(cls rc.ClassPtr) string {
	return shim.Current().ClassName(cls)
}

// Superclass returns the superclass of cls, or false for a root class.
func Superclass(cls rc.ClassPtr) (rc.ClassPtr, bool) {
	return shim.Current().Superclass(cls).Get()
}

func ConformsToProtocol(cls rc.ClassPtr, protocol string) bool {
	return shim.Current().ConformsToProtocol(cls, protocol)
}

func RespondsToSelector(cls rc.ClassPtr, selector string) bool {
	return shim.Current().RespondsToSelector(cls, selector)
}

// Hierarchy returns the names of cls and its ancestors, most derived first.
func Hierarchy(cls rc.ClassPtr) []string {
	var names []string
	for c, ok := cls, true; ok; c, ok = Superclass(c) {
		names = append(names, ClassName(c))
	}
	return names
}

// ClassInfo is a snapshot of a class as seen by the runtime.
type ClassInfo struct {
	Name      string   `json:"name"`
	Hierarchy []string `json:"hierarchy"`
	Protocols []string `json:"protocols,omitempty"`
	Selectors []string `json:"selectors,omitempty"`
}

// Inspect collects the hierarchy, protocols and selectors of the named class.
func Inspect(name string) (*ClassInfo, error) {
	cls, ok := ClassNamed(name)
	if !ok {
		return nil, errors.Errorf("class %s not found", name)
	}
	rt := shim.Current()
	info := &ClassInfo{
		Name:      name,
		Hierarchy: Hierarchy(cls),
		Protocols: rt.ClassProtocols(cls),
		Selectors: rt.ClassSelectors(cls),
	}
	sort.Strings(info.Protocols)
	sort.Strings(info.Selectors)
	log.WithFields(log.Fields{
		"class":     name,
		"depth":     len(info.Hierarchy),
		"protocols": len(info.Protocols),
		"selectors": len(info.Selectors),
	}).Debug("inspected class")
	return info, nil
}
