// Package core holds the particle simulation substrate: reference-counted
// objects, particle groups with aligned attribute buffers, emitters,
// modifiers, zones, the renderer contract and the system that drives them.
package core

import "fmt"

// Object is the handle contract shared by every simulation object.
// Objects are reference counted; Acquire/Release adjust the count and a
// release to zero tears the object down through Destructible when implemented.
type Object interface {
	Name() string
	SetName(name string)
	Shared() bool
	SetShared(shared bool)
	TypeName() string
	Acquire()
	Release() bool
	RefCount() int
}

// Destructible is implemented by objects that own resources beyond memory.
type Destructible interface {
	Destroy()
}

// Parent is implemented by objects that own child objects (a group owns its
// emitters, a zoned modifier its zone). Used for registry propagation.
type Parent interface {
	Children() []Object
}

// Base carries the name, shared flag and reference count. Embed it.
type Base struct {
	name   string
	shared bool
	refs   int
}

// Name returns the user assigned name.
func (b *Base) Name() string { return b.name }

// SetName assigns the lookup name.
func (b *Base) SetName(name string) { b.name = name }

// Shared reports whether the object may be used by several owners.
func (b *Base) Shared() bool { return b.shared }

// SetShared marks the object as shared.
func (b *Base) SetShared(shared bool) { b.shared = shared }

// Acquire increments the reference count.
func (b *Base) Acquire() { b.refs++ }

// Release decrements the reference count and reports whether it hit zero.
func (b *Base) Release() bool {
	if b.refs <= 0 {
		panic(fmt.Sprintf("core: release of %q with zero references", b.name))
	}
	b.refs--
	return b.refs == 0
}

// RefCount returns the number of live handles.
func (b *Base) RefCount() int { return b.refs }

// Retain acquires o and returns it, so construction and ownership read as
// one expression.
func Retain[T Object](o T) T {
	o.Acquire()
	return o
}

// Drop releases o and destroys it when the last handle is gone.
// A nil object is ignored.
func Drop(o Object) {
	if o == nil {
		return
	}
	if o.Release() {
		if d, ok := o.(Destructible); ok {
			d.Destroy()
		}
	}
}

// Fresh returns a copy of b with the same name, not shared and with no
// references. Clone implementations use it for the copy's Base.
func (b *Base) Fresh() Base {
	return Base{name: b.name}
}
