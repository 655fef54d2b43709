package core

import (
	"cmp"
	"slices"

	"github.com/mlange-42/ark/ecs"
)

// registryEntry is the ECS component pointing back to a registered object.
type registryEntry struct {
	Object Object
}

// registration tracks how many owners registered the object and when it
// was first seen. Lookups return the earliest registration.
type registration struct {
	Seq  uint64
	Refs int
}

// Registry is the weak name lookup table. It never owns the objects it
// indexes: registering does not touch reference counts.
type Registry struct {
	world   *ecs.World
	mapper  *ecs.Map2[registryEntry, registration]
	filter  *ecs.Filter2[registryEntry, registration]
	regMap  *ecs.Map1[registration]
	byObj   map[Object]ecs.Entity
	nextSeq uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	world := ecs.NewWorld()
	return &Registry{
		world:  world,
		mapper: ecs.NewMap2[registryEntry, registration](world),
		filter: ecs.NewFilter2[registryEntry, registration](world),
		regMap: ecs.NewMap1[registration](world),
		byObj:  make(map[Object]ecs.Entity),
	}
}

// Register indexes o and, recursively, its children.
func (r *Registry) Register(o Object) {
	if o == nil {
		return
	}
	if e, ok := r.byObj[o]; ok {
		r.regMap.Get(e).Refs++
	} else {
		entry := registryEntry{Object: o}
		reg := registration{Seq: r.nextSeq, Refs: 1}
		r.nextSeq++
		r.byObj[o] = r.mapper.NewEntity(&entry, &reg)
	}
	if p, ok := o.(Parent); ok {
		for _, child := range p.Children() {
			r.Register(child)
		}
	}
}

// Unregister undoes one Register of o and its children.
func (r *Registry) Unregister(o Object) {
	if o == nil {
		return
	}
	if p, ok := o.(Parent); ok {
		for _, child := range p.Children() {
			r.Unregister(child)
		}
	}
	e, ok := r.byObj[o]
	if !ok {
		return
	}
	reg := r.regMap.Get(e)
	reg.Refs--
	if reg.Refs > 0 {
		return
	}
	r.mapper.Remove(e)
	delete(r.byObj, o)
}

// Contains reports whether o is currently indexed.
func (r *Registry) Contains(o Object) bool {
	_, ok := r.byObj[o]
	return ok
}

// Len returns the number of indexed objects.
func (r *Registry) Len() int {
	return len(r.byObj)
}

// FindByName returns the earliest registered object with the given name,
// or nil.
func (r *Registry) FindByName(name string) Object {
	var found Object
	var best uint64
	query := r.filter.Query()
	for query.Next() {
		entry, reg := query.Get()
		if entry.Object.Name() != name {
			continue
		}
		if found == nil || reg.Seq < best {
			found = entry.Object
			best = reg.Seq
		}
	}
	return found
}

// FindAllByName returns every indexed object with the given name in
// registration order.
func (r *Registry) FindAllByName(name string) []Object {
	type match struct {
		obj Object
		seq uint64
	}
	var matches []match
	query := r.filter.Query()
	for query.Next() {
		entry, reg := query.Get()
		if entry.Object.Name() == name {
			matches = append(matches, match{obj: entry.Object, seq: reg.Seq})
		}
	}
	slices.SortFunc(matches, func(a, b match) int { return cmp.Compare(a.seq, b.seq) })
	out := make([]Object, len(matches))
	for i, m := range matches {
		out[i] = m.obj
	}
	return out
}

// Clear drops every entry.
func (r *Registry) Clear() {
	for o, e := range r.byObj {
		r.mapper.Remove(e)
		delete(r.byObj, o)
	}
}
