package core

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestPointZoneTests(t *testing.T) {
	p := NewPoint(r3.Vec{})
	old, pos := r3.Vec{X: -1}, r3.Vec{X: 1}

	tests := []struct {
		test ZoneTest
		want bool
	}{
		{ZoneTestInside, false},
		{ZoneTestOutside, true},
		{ZoneTestIntersect, false},
		{ZoneTestEnter, false},
		{ZoneTestLeave, false},
	}
	for _, tc := range tests {
		if _, got := CheckZone(p, tc.test, old, pos, 0); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.test, tc.want, got)
		}
	}
}

func TestZoneTestFallback(t *testing.T) {
	supported := ZoneTestOutside.Flag() | ZoneTestLeave.Flag()
	m := NewZonedModifier(0, supported, ZoneTestIntersect, nil)
	if m.ZoneTest() != ZoneTestOutside {
		t.Errorf("expected fallback to outside, got %s", m.ZoneTest())
	}
	m.SetZoneTest(ZoneTestLeave)
	if m.ZoneTest() != ZoneTestLeave {
		t.Errorf("expected leave, got %s", m.ZoneTest())
	}
}

func TestZonedModifierRequiresATest(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty zone test mask")
		}
	}()
	NewZonedModifier(0, 0, ZoneTestInside, nil)
}

func TestNilZoneResolvesToDefault(t *testing.T) {
	g, ctx := newTestGroup(4, 0)
	m := NewZonedModifier(0, AllZoneTests, ZoneTestInside, nil)
	if m.Zone() != nil {
		t.Error("nil zone should be kept as the default marker")
	}
	if m.ResolveZone(g) != ctx.DefaultZone() {
		t.Error("nil zone should resolve to the context default zone")
	}

	z := NewPoint(r3.Vec{X: 2})
	m.SetZone(z)
	m.SetZone(nil)
	if z.RefCount() != 0 {
		t.Errorf("replaced zone should be released, refcount=%d", z.RefCount())
	}
}

func TestParseZoneTest(t *testing.T) {
	for test := ZoneTest(0); test < NumZoneTests; test++ {
		got, ok := ParseZoneTest(test.String())
		if !ok || got != test {
			t.Errorf("round trip of %s failed", test)
		}
	}
}
