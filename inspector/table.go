// Package inspector describes simulation objects through static attribute
// tables: one table per object type listing each attribute's name, kind,
// getter and optional setter. The tables drive the -describe output and the
// on-screen inspector panel.
package inspector

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spark/core"
)

var (
	ErrUnknownType      = errors.New("no attribute table for type")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrReadOnly         = errors.New("attribute is read-only")
	ErrType             = errors.New("attribute value has the wrong type")
)

// Kind is the value type of an attribute.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindBool
	KindVec
	KindColor
	KindString
)

var kindNames = [...]string{"float", "int", "bool", "vec3", "color", "string"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Attribute is one row of a table.
type Attribute struct {
	Name    string
	Kind    Kind
	Widget  Widget
	Options map[string]string

	Get func(o core.Object) any
	Set func(o core.Object, v any) error // nil when read-only
}

// Writable reports whether the attribute has a setter.
func (a Attribute) Writable() bool { return a.Set != nil }

// With returns a copy of a carrying the widget and options of an inspect
// tag, e.g. "bar,max:100".
func (a Attribute) With(tag string) Attribute {
	a.Widget, a.Options = ParseTag(tag)
	return a
}

// Table lists the attributes of one object type.
type Table struct {
	Type       string
	Attributes []Attribute
}

// Attribute returns the named attribute.
func (t *Table) Attribute(name string) (Attribute, bool) {
	i := slices.IndexFunc(t.Attributes, func(a Attribute) bool { return a.Name == name })
	if i < 0 {
		return Attribute{}, false
	}
	return t.Attributes[i], true
}

func attr[T core.Object, V any](name string, kind Kind, get func(T) V, set func(T, V)) Attribute {
	a := Attribute{
		Name:   name,
		Kind:   kind,
		Widget: WidgetLabel,
		Get:    func(o core.Object) any { return get(o.(T)) },
	}
	if kind == KindBool {
		a.Widget = WidgetBool
	}
	if set != nil {
		a.Set = func(o core.Object, v any) error {
			val, ok := v.(V)
			if !ok {
				return fmt.Errorf("%s wants %s, got %T: %w", name, kind, v, ErrType)
			}
			set(o.(T), val)
			return nil
		}
	}
	return a
}

// Float describes a float64 attribute of T.
func Float[T core.Object](name string, get func(T) float64, set func(T, float64)) Attribute {
	return attr(name, KindFloat, get, set)
}

// Int describes an int attribute of T.
func Int[T core.Object](name string, get func(T) int, set func(T, int)) Attribute {
	return attr(name, KindInt, get, set)
}

// Bool describes a bool attribute of T.
func Bool[T core.Object](name string, get func(T) bool, set func(T, bool)) Attribute {
	return attr(name, KindBool, get, set)
}

// String describes a string attribute of T.
func String[T core.Object](name string, get func(T) string, set func(T, string)) Attribute {
	return attr(name, KindString, get, set)
}

// Vec describes an r3.Vec attribute of T.
func Vec[T core.Object](name string, get func(T) r3.Vec, set func(T, r3.Vec)) Attribute {
	return attr(name, KindVec, get, set)
}

// Color describes a color attribute of T.
func Color[T core.Object](name string, get func(T) core.Color, set func(T, core.Color)) Attribute {
	return attr(name, KindColor, get, set)
}
