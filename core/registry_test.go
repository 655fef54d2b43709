package core

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestRegistryFindByName(t *testing.T) {
	r := NewRegistry()
	a := NewPoint(r3.Vec{})
	a.SetName("spot")
	b := NewPoint(r3.Vec{X: 1})
	b.SetName("spot")
	c := NewPoint(r3.Vec{X: 2})
	c.SetName("other")

	r.Register(a)
	r.Register(b)
	r.Register(c)

	if got := r.FindByName("spot"); got != Object(a) {
		t.Errorf("expected first registered match, got %v", got)
	}
	if got := r.FindByName("missing"); got != nil {
		t.Errorf("expected nil for unknown name, got %v", got)
	}
	all := r.FindAllByName("spot")
	if len(all) != 2 || all[0] != Object(a) || all[1] != Object(b) {
		t.Errorf("expected [a b], got %v", all)
	}

	r.Unregister(a)
	if got := r.FindByName("spot"); got != Object(b) {
		t.Errorf("expected b after unregistering a, got %v", got)
	}
}

func TestRegistryIsWeak(t *testing.T) {
	r := NewRegistry()
	p := NewPoint(r3.Vec{})
	r.Register(p)
	if p.RefCount() != 0 {
		t.Errorf("registry must not take references, refcount=%d", p.RefCount())
	}
}

func TestRegistrySharedObjectCountsRegistrations(t *testing.T) {
	r := NewRegistry()
	p := NewPoint(r3.Vec{})
	p.SetName("shared")
	r.Register(p)
	r.Register(p)
	r.Unregister(p)
	if r.FindByName("shared") == nil {
		t.Fatal("object dropped while still registered once")
	}
	r.Unregister(p)
	if r.FindByName("shared") != nil || r.Len() != 0 {
		t.Error("object still indexed after final unregister")
	}
}

func TestSystemIndexesGroupChildren(t *testing.T) {
	ctx := NewContext(1)
	s := NewSystem(ctx)
	g, err := s.CreateGroup(10)
	if err != nil {
		t.Fatal(err)
	}
	g.SetName("sparks")
	m := newTagModifier("tagger", 0, 0)
	g.AddModifier(m)

	if s.FindByName("sparks") != Object(g) {
		t.Error("group not found by name")
	}
	if s.FindByName("tagger") != Object(m) {
		t.Error("modifier added after the group joined the system not found")
	}

	s.RemoveGroup(g)
	if s.FindByName("tagger") != nil || s.FindByName("sparks") != nil {
		t.Error("objects still indexed after group removal")
	}
}
