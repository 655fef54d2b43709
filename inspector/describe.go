package inspector

import (
	"fmt"
	"slices"

	"github.com/pthm-cable/spark/core"
)

// Field is one formatted attribute of a described object.
type Field struct {
	Name     string
	Value    any
	Kind     Kind
	Widget   Widget
	Options  map[string]string
	Writable bool
}

// Text formats the field value honoring the fmt option.
func (f Field) Text() string {
	return FormatValue(f.Value, f.Options["fmt"])
}

// Lookup returns the table registered for a type name.
func Lookup(typeName string) (*Table, bool) {
	t, ok := registry[typeName]
	return t, ok
}

// Types returns the registered type names, sorted.
func Types() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Describe returns the common object fields followed by the fields of the
// object's table. Objects without a table only get the common fields.
func Describe(o core.Object) []Field {
	fields := []Field{
		{Name: "type", Value: o.TypeName(), Kind: KindString, Widget: WidgetLabel},
		{Name: "name", Value: o.Name(), Kind: KindString, Widget: WidgetLabel, Writable: true},
		{Name: "shared", Value: o.Shared(), Kind: KindBool, Widget: WidgetBool},
		{Name: "refs", Value: o.RefCount(), Kind: KindInt, Widget: WidgetLabel},
	}
	t, ok := Lookup(o.TypeName())
	if !ok {
		return fields
	}
	for _, a := range t.Attributes {
		fields = append(fields, Field{
			Name:     a.Name,
			Value:    a.Get(o),
			Kind:     a.Kind,
			Widget:   a.Widget,
			Options:  a.Options,
			Writable: a.Writable(),
		})
	}
	return fields
}

func attribute(o core.Object, name string) (Attribute, error) {
	t, ok := Lookup(o.TypeName())
	if !ok {
		return Attribute{}, fmt.Errorf("%s: %w", o.TypeName(), ErrUnknownType)
	}
	a, ok := t.Attribute(name)
	if !ok {
		return Attribute{}, fmt.Errorf("%s.%s: %w", o.TypeName(), name, ErrUnknownAttribute)
	}
	return a, nil
}

// Get reads one attribute.
func Get(o core.Object, name string) (any, error) {
	a, err := attribute(o, name)
	if err != nil {
		return nil, err
	}
	return a.Get(o), nil
}

// Set writes one attribute. The value must have the attribute's Go type
// (float64, int, bool, string, r3.Vec or core.Color).
func Set(o core.Object, name string, v any) error {
	if name == "name" {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("name wants string, got %T: %w", v, ErrType)
		}
		o.SetName(s)
		return nil
	}
	a, err := attribute(o, name)
	if err != nil {
		return err
	}
	if a.Set == nil {
		return fmt.Errorf("%s.%s: %w", o.TypeName(), name, ErrReadOnly)
	}
	return a.Set(o, v)
}

// Entry is an object found by Walk with its depth in the object tree.
type Entry struct {
	Object core.Object
	Depth  int
}

// Walk lists root and every object below it, depth first. Objects reached
// twice (shared zones) are listed once.
func Walk(root core.Object) []Entry {
	var out []Entry
	seen := make(map[core.Object]bool)
	var visit func(o core.Object, depth int)
	visit = func(o core.Object, depth int) {
		if seen[o] {
			return
		}
		seen[o] = true
		out = append(out, Entry{Object: o, Depth: depth})
		if p, ok := o.(core.Parent); ok {
			for _, c := range p.Children() {
				visit(c, depth+1)
			}
		}
	}
	visit(root, 0)
	return out
}
