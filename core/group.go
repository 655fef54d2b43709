package core

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrZeroCapacity is returned when a group is sized to hold no particle.
var ErrZeroCapacity = errors.New("group capacity must be positive")

// GroupStats are cumulative particle counters.
type GroupStats struct {
	Spawned uint64 // particles created by emitters or AddParticle
	Dropped uint64 // spawn requests lost to a full group
	Killed  uint64 // particles removed after being marked dead
	Expired uint64 // particles removed by aging
}

const (
	channelBehavior = -2
	channelColor    = -1
)

type slotKey struct {
	owner   any
	channel int // channelBehavior, channelColor or a Param
}

// dataSlot binds a behavior to the DataSet the group keeps for it.
type dataSlot struct {
	key     slotKey
	handler DataHandler
	set     *DataSet
}

// Group is a fixed-capacity particle pool. Alive particles occupy slots
// [0, NbParticles()); every attribute buffer, built-in or DataSet owned,
// is indexed by the same slot.
type Group struct {
	Base
	ctx    *Context
	system *System

	capacity int
	alive    int

	position    *ArrayData[r3.Vec]
	oldPosition *ArrayData[r3.Vec]
	velocity    *ArrayData[r3.Vec]
	age         *ArrayData[float64]
	life        *ArrayData[float64]
	lifetime    *ArrayData[float64]
	color       *ArrayData[Color]
	params      [NumParams]*ArrayData[float64]
	dead        *ArrayData[bool]

	minLifetime float64
	maxLifetime float64
	immortal    bool
	radius      float64

	emitters     []*Emitter
	modifiers    []Modifier
	renderer     Renderer
	renderBuffer any
	colorInterp  ColorInterpolator
	paramInterps [NumParams]ParamInterpolator

	slots     []*dataSlot
	slotIndex map[slotKey]*dataSlot

	updating bool
	elapsed  float64
	aabbMin  r3.Vec
	aabbMax  r3.Vec
	stats    GroupStats
}

// NewGroup creates an empty group able to hold capacity particles.
func NewGroup(ctx *Context, capacity int) (*Group, error) {
	if ctx == nil {
		panic("core: group requires a context")
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("new group with capacity %d: %w", capacity, ErrZeroCapacity)
	}
	g := &Group{
		ctx:         ctx,
		minLifetime: 1,
		maxLifetime: 1,
		slotIndex:   make(map[slotKey]*dataSlot),
	}
	g.allocate(capacity)
	return g, nil
}

func (g *Group) allocate(capacity int) {
	g.capacity = capacity
	g.position = NewArrayData[r3.Vec](capacity, 1)
	g.oldPosition = NewArrayData[r3.Vec](capacity, 1)
	g.velocity = NewArrayData[r3.Vec](capacity, 1)
	g.age = NewArrayData[float64](capacity, 1)
	g.life = NewArrayData[float64](capacity, 1)
	g.lifetime = NewArrayData[float64](capacity, 1)
	g.color = NewArrayData[Color](capacity, 1)
	for i := range g.params {
		g.params[i] = NewArrayData[float64](capacity, 1)
	}
	g.dead = NewArrayData[bool](capacity, 1)
}

// TypeName implements Object.
func (g *Group) TypeName() string { return "Group" }

// Context returns the context the group was created in.
func (g *Group) Context() *Context { return g.ctx }

// System returns the owning system, or nil.
func (g *Group) System() *System { return g.system }

// Capacity returns the maximum number of particles.
func (g *Group) Capacity() int { return g.capacity }

// NbParticles returns the alive count.
func (g *Group) NbParticles() int { return g.alive }

// Elapsed returns the simulated time the group has been updated for,
// including the step in progress.
func (g *Group) Elapsed() float64 { return g.elapsed }

// Stats returns the cumulative counters.
func (g *Group) Stats() GroupStats { return g.stats }

// Lifetime returns the range new particle lifetimes are drawn from.
func (g *Group) Lifetime() (min, max float64) { return g.minLifetime, g.maxLifetime }

// SetLifetime sets the lifetime range for new particles.
func (g *Group) SetLifetime(min, max float64) {
	if min > max {
		min, max = max, min
	}
	g.minLifetime, g.maxLifetime = min, max
}

// Immortal reports whether particles skip aging death.
func (g *Group) Immortal() bool { return g.immortal }

// SetImmortal disables aging death.
func (g *Group) SetImmortal(immortal bool) { g.immortal = immortal }

// Radius returns the physical particle radius used by zone tests.
func (g *Group) Radius() float64 { return g.radius }

// SetRadius sets the physical particle radius.
func (g *Group) SetRadius(r float64) { g.radius = math.Max(0, r) }

// Particle returns the view of slot i, which must be below NbParticles.
func (g *Group) Particle(i int) Particle {
	if i < 0 || i >= g.alive {
		panic(fmt.Sprintf("core: particle %d outside [0, %d)", i, g.alive))
	}
	return Particle{g: g, index: i}
}

// Particles iterates the alive particles in slot order, skipping those
// marked dead during the current pass.
func (g *Group) Particles() iter.Seq[Particle] {
	return func(yield func(Particle) bool) {
		for i := 0; i < g.alive; i++ {
			if g.dead.data[i] {
				continue
			}
			if !yield(Particle{g: g, index: i}) {
				return
			}
		}
	}
}

// Emitters returns the attached emitters.
func (g *Group) Emitters() []*Emitter { return g.emitters }

// AddEmitter attaches e. Attaching the same emitter twice is a no-op.
func (g *Group) AddEmitter(e *Emitter) {
	if e == nil || slices.Contains(g.emitters, e) {
		return
	}
	g.emitters = append(g.emitters, Retain(e))
	g.register(e)
}

// RemoveEmitter detaches e and reports whether it was attached.
func (g *Group) RemoveEmitter(e *Emitter) bool {
	i := slices.Index(g.emitters, e)
	if i < 0 {
		return false
	}
	g.emitters = slices.Delete(g.emitters, i, i+1)
	g.unregister(e)
	Drop(e)
	return true
}

// Modifiers returns the attached modifiers in execution order.
func (g *Group) Modifiers() []Modifier { return g.modifiers }

// AddModifier attaches m after every modifier of lower or equal priority.
func (g *Group) AddModifier(m Modifier) {
	if m == nil || slices.Contains(g.modifiers, m) {
		return
	}
	i := len(g.modifiers)
	for i > 0 && g.modifiers[i-1].Priority() > m.Priority() {
		i--
	}
	g.modifiers = slices.Insert(g.modifiers, i, Modifier(Retain(m)))
	g.attach(slotKey{owner: m, channel: channelBehavior}, m)
	g.register(m)
}

// RemoveModifier detaches m and reports whether it was attached.
func (g *Group) RemoveModifier(m Modifier) bool {
	i := slices.Index(g.modifiers, m)
	if i < 0 {
		return false
	}
	g.modifiers = slices.Delete(g.modifiers, i, i+1)
	g.detach(slotKey{owner: m, channel: channelBehavior})
	g.unregister(m)
	Drop(m)
	return true
}

// Renderer returns the attached renderer, or nil.
func (g *Group) Renderer() Renderer { return g.renderer }

// SetRenderer replaces the renderer. nil detaches it.
func (g *Group) SetRenderer(r Renderer) {
	if r == g.renderer {
		return
	}
	if old := g.renderer; old != nil {
		g.detach(slotKey{owner: old, channel: channelBehavior})
		g.unregister(old)
		g.renderer = nil
		g.renderBuffer = nil
		Drop(old)
	}
	if r == nil {
		return
	}
	g.renderer = Retain(r)
	g.attach(slotKey{owner: r, channel: channelBehavior}, r)
	g.renderBuffer = r.AttachRenderBuffer(g)
	g.register(r)
}

// RenderBuffer returns the buffer attached for the current renderer.
func (g *Group) RenderBuffer() any { return g.renderBuffer }

// ColorInterpolator returns the color interpolator, or nil.
func (g *Group) ColorInterpolator() ColorInterpolator { return g.colorInterp }

// SetColorInterpolator replaces the color interpolator. nil leaves colors
// untouched after birth.
func (g *Group) SetColorInterpolator(ci ColorInterpolator) {
	if old := g.colorInterp; old != nil {
		g.detach(slotKey{owner: old, channel: channelColor})
		g.unregister(old)
		g.colorInterp = nil
		Drop(old)
	}
	if ci == nil {
		return
	}
	g.colorInterp = Retain(ci)
	g.attach(slotKey{owner: ci, channel: channelColor}, ci)
	g.register(ci)
}

// ParamInterpolator returns the interpolator driving param, or nil.
func (g *Group) ParamInterpolator(param Param) ParamInterpolator { return g.paramInterps[param] }

// SetParamInterpolator replaces the interpolator for param.
func (g *Group) SetParamInterpolator(param Param, pi ParamInterpolator) {
	if old := g.paramInterps[param]; old != nil {
		g.detach(slotKey{owner: old, channel: int(param)})
		g.unregister(old)
		g.paramInterps[param] = nil
		Drop(old)
	}
	if pi == nil {
		return
	}
	g.paramInterps[param] = Retain(pi)
	g.attach(slotKey{owner: pi, channel: int(param)}, pi)
	g.register(pi)
}

// DataSet returns the set the group keeps for owner, or nil when owner
// keeps no per-particle data.
func (g *Group) DataSet(owner any) *DataSet {
	return g.dataSet(owner, channelBehavior)
}

func (g *Group) dataSet(owner any, channel int) *DataSet {
	if s, ok := g.slotIndex[slotKey{owner: owner, channel: channel}]; ok {
		return s.set
	}
	return nil
}

// attach creates the slot for owner when it keeps data or seeds particles,
// then initializes every alive particle for it.
func (g *Group) attach(key slotKey, owner any) {
	handler, _ := owner.(DataHandler)
	needsData := handler != nil && handler.NeedsDataSet()
	if key.channel == channelBehavior && !needsData {
		if _, ok := owner.(ParticleInitializer); !ok {
			return
		}
	}
	s := &dataSlot{key: key}
	if needsData {
		s.handler = handler
		s.set = &DataSet{}
		handler.CreateData(s.set, g)
	}
	g.slots = append(g.slots, s)
	g.slotIndex[key] = s
	g.initSlot(s)
}

func (g *Group) detach(key slotKey) {
	s, ok := g.slotIndex[key]
	if !ok {
		return
	}
	delete(g.slotIndex, key)
	g.slots = slices.DeleteFunc(g.slots, func(x *dataSlot) bool { return x == s })
	if s.set != nil {
		s.set.DestroyAll()
	}
}

// initSlot runs the slot owner's per-particle initialization over every
// alive particle.
func (g *Group) initSlot(s *dataSlot) {
	for i := 0; i < g.alive; i++ {
		g.initSlotParticle(s, Particle{g: g, index: i})
	}
}

func (g *Group) initSlotParticle(s *dataSlot, p Particle) {
	switch {
	case s.key.channel == channelBehavior:
		if init, ok := s.key.owner.(ParticleInitializer); ok {
			init.InitParticle(p, s.set)
		}
	case s.key.channel == channelColor:
		g.colorInterp.InitColor(p, s.set)
	default:
		param := Param(s.key.channel)
		g.paramInterps[param].InitParam(p, param, s.set)
	}
}

// checkData lets every data handler validate its layout and rebuilds the
// stale ones.
func (g *Group) checkData() {
	for _, s := range g.slots {
		if s.handler == nil {
			continue
		}
		if !s.set.Initialized() || s.handler.CheckData(s.set, g) {
			g.rebuildSlot(s)
		}
	}
}

func (g *Group) rebuildSlot(s *dataSlot) {
	s.set.DestroyAll()
	s.handler.CreateData(s.set, g)
	g.initSlot(s)
}

// Reallocate changes the capacity. The first min(NbParticles, capacity)
// particles are kept and every DataSet is rebuilt.
func (g *Group) Reallocate(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("reallocate group %q to %d: %w", g.Name(), capacity, ErrZeroCapacity)
	}
	if capacity == g.capacity {
		return nil
	}
	old := *g
	g.allocate(capacity)
	n := min(old.alive, capacity)
	copyParticles(g.position, old.position, n)
	copyParticles(g.oldPosition, old.oldPosition, n)
	copyParticles(g.velocity, old.velocity, n)
	copyParticles(g.age, old.age, n)
	copyParticles(g.life, old.life, n)
	copyParticles(g.lifetime, old.lifetime, n)
	copyParticles(g.color, old.color, n)
	for i := range g.params {
		copyParticles(g.params[i], old.params[i], n)
	}
	copyParticles(g.dead, old.dead, n)
	g.alive = n

	for _, s := range g.slots {
		if s.handler != nil {
			g.rebuildSlot(s)
		}
	}
	if g.renderer != nil {
		g.renderBuffer = g.renderer.AttachRenderBuffer(g)
	}
	return nil
}

func copyParticles[T any](dst, src *ArrayData[T], n int) {
	copy(dst.data, src.data[:n*src.sizePerParticle])
}

// AddParticles spawns up to n particles placed by e. Requests beyond the
// free capacity are dropped. It returns the number spawned.
func (g *Group) AddParticles(n int, e *Emitter) int {
	if e == nil {
		return g.spawn(n, nil)
	}
	return g.spawn(n, e.Emit)
}

// AddParticle spawns one particle at pos with velocity vel. It reports
// false when the group is full.
func (g *Group) AddParticle(pos, vel r3.Vec) bool {
	return g.spawn(1, func(p Particle) {
		p.SetPosition(pos)
		p.SetVelocity(vel)
	}) == 1
}

func (g *Group) spawn(n int, place func(Particle)) int {
	if n <= 0 {
		return 0
	}
	count := min(n, g.capacity-g.alive)
	g.stats.Dropped += uint64(n - count)
	for k := 0; k < count; k++ {
		i := g.alive
		g.alive++
		g.initParticle(i, place)
	}
	g.stats.Spawned += uint64(count)
	return count
}

func (g *Group) initParticle(i int, place func(Particle)) {
	rng := g.ctx.Rand()
	g.dead.data[i] = false
	g.age.data[i] = 0
	lt := RandomRange(rng, g.minLifetime, g.maxLifetime)
	g.lifetime.data[i] = lt
	g.life.data[i] = lt
	g.color.data[i] = White
	for k := range g.params {
		g.params[k].data[i] = ParamDefaults[k]
	}
	g.position.data[i] = r3.Vec{}
	g.velocity.data[i] = r3.Vec{}

	p := Particle{g: g, index: i}
	if g.colorInterp != nil {
		g.colorInterp.InitColor(p, g.dataSet(g.colorInterp, channelColor))
	}
	for k, pi := range g.paramInterps {
		if pi != nil {
			pi.InitParam(p, Param(k), g.dataSet(pi, k))
		}
	}
	if place != nil {
		place(p)
	}
	g.oldPosition.data[i] = g.position.data[i]
	for _, s := range g.slots {
		if s.key.channel == channelBehavior {
			g.initSlotParticle(s, p)
		}
	}
}

// RemoveParticle removes slot i. During an update the particle is only
// marked dead and leaves at the next compaction; otherwise the last alive
// particle is moved into slot i immediately.
func (g *Group) RemoveParticle(i int) {
	if i < 0 || i >= g.alive {
		panic(fmt.Sprintf("core: remove particle %d outside [0, %d)", i, g.alive))
	}
	if g.updating {
		g.dead.data[i] = true
		return
	}
	g.stats.Killed++
	g.swapRemove(i)
}

// Empty removes every particle.
func (g *Group) Empty() {
	g.alive = 0
}

func (g *Group) swapRemove(i int) {
	last := g.alive - 1
	if i != last {
		g.swap(i, last)
	}
	g.alive--
}

func (g *Group) swap(i, j int) {
	g.position.Swap(i, j)
	g.oldPosition.Swap(i, j)
	g.velocity.Swap(i, j)
	g.age.Swap(i, j)
	g.life.Swap(i, j)
	g.lifetime.Swap(i, j)
	g.color.Swap(i, j)
	for _, p := range g.params {
		p.Swap(i, j)
	}
	g.dead.Swap(i, j)
	for _, s := range g.slots {
		if s.set != nil {
			s.set.Swap(i, j)
		}
	}
}

// Update advances the group by dt: emitters spawn, modifiers run in
// priority order, then one pass removes dead particles and ages, moves and
// interpolates the survivors. It reports whether the group can still
// produce or hold particles.
func (g *Group) Update(dt float64) bool {
	g.updating = true
	g.elapsed += dt
	g.checkData()

	for _, e := range g.emitters {
		if e.Active() {
			g.AddParticles(e.UpdateNumber(dt), e)
		}
	}
	for _, m := range g.modifiers {
		if m.Active() {
			m.Modify(g, g.dataSet(m, channelBehavior), dt)
		}
	}
	g.compact(dt)

	if g.renderer != nil {
		if u, ok := g.renderer.(RenderUpdater); ok {
			u.UpdateRender(g, g.dataSet(g.renderer, channelBehavior), dt)
		}
	}
	g.updating = false
	return g.alive > 0 || g.hasActiveEmitter()
}

// compact swap-removes dead and expired particles and integrates the rest.
// The particle moved into a freed slot is examined before moving on.
func (g *Group) compact(dt float64) {
	var colorSet *DataSet
	if g.colorInterp != nil {
		colorSet = g.dataSet(g.colorInterp, channelColor)
	}
	var paramSets [NumParams]*DataSet
	for k, pi := range g.paramInterps {
		if pi != nil {
			paramSets[k] = g.dataSet(pi, k)
		}
	}

	i := 0
	for i < g.alive {
		if g.dead.data[i] {
			g.stats.Killed++
			g.swapRemove(i)
			continue
		}
		g.age.data[i] += dt
		if !g.immortal {
			g.life.data[i] -= dt
			if g.life.data[i] <= 0 {
				g.stats.Expired++
				g.swapRemove(i)
				continue
			}
		}
		pos := g.position.data[i]
		g.oldPosition.data[i] = pos
		g.position.data[i] = r3.Add(pos, r3.Scale(dt, g.velocity.data[i]))

		p := Particle{g: g, index: i}
		if g.colorInterp != nil {
			g.colorInterp.InterpolateColor(p, colorSet)
		}
		for k, pi := range g.paramInterps {
			if pi != nil {
				pi.InterpolateParam(p, Param(k), paramSets[k])
			}
		}
		i++
	}
}

func (g *Group) hasActiveEmitter() bool {
	for _, e := range g.emitters {
		if !e.Exhausted() {
			return true
		}
	}
	return false
}

// Render draws the group through its renderer.
func (g *Group) Render() {
	if g.renderer == nil || !g.renderer.Active() {
		return
	}
	g.renderer.Render(g, g.dataSet(g.renderer, channelBehavior), g.renderBuffer)
}

// ComputeAABB recomputes the bounding box through the renderer, or from
// the particle positions when no renderer is attached.
func (g *Group) ComputeAABB() (min, max r3.Vec) {
	if g.renderer != nil {
		g.aabbMin, g.aabbMax = g.renderer.ComputeAABB(g, g.dataSet(g.renderer, channelBehavior))
	} else {
		g.aabbMin, g.aabbMax = PositionsAABB(g)
	}
	return g.aabbMin, g.aabbMax
}

// AABB returns the last computed bounding box.
func (g *Group) AABB() (min, max r3.Vec) { return g.aabbMin, g.aabbMax }

// UpdateTransform propagates the system transform to emitters and
// modifiers.
func (g *Group) UpdateTransform(parent Transform) {
	for _, e := range g.emitters {
		e.UpdateTransform(parent)
	}
	for _, m := range g.modifiers {
		m.UpdateTransform(parent)
	}
}

// Children returns every attached object.
func (g *Group) Children() []Object {
	out := make([]Object, 0, len(g.emitters)+len(g.modifiers)+2)
	for _, e := range g.emitters {
		out = append(out, e)
	}
	for _, m := range g.modifiers {
		out = append(out, m)
	}
	if g.renderer != nil {
		out = append(out, g.renderer)
	}
	if g.colorInterp != nil {
		out = append(out, g.colorInterp)
	}
	for _, pi := range g.paramInterps {
		if pi != nil {
			out = append(out, pi)
		}
	}
	return out
}

func (g *Group) register(o Object) {
	if g.system != nil {
		g.ctx.registry.Register(o)
	}
}

func (g *Group) unregister(o Object) {
	if g.system != nil {
		g.ctx.registry.Unregister(o)
	}
}

// Destroy releases every attached object and data set.
func (g *Group) Destroy() {
	for _, e := range g.emitters {
		Drop(e)
	}
	g.emitters = nil
	for _, m := range g.modifiers {
		Drop(m)
	}
	g.modifiers = nil
	g.SetRenderer(nil)
	g.SetColorInterpolator(nil)
	for k := range g.paramInterps {
		g.SetParamInterpolator(Param(k), nil)
	}
	for _, s := range g.slots {
		if s.set != nil {
			s.set.DestroyAll()
		}
	}
	g.slots = nil
	clear(g.slotIndex)
	g.alive = 0
}
