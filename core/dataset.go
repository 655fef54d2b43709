package core

import "fmt"

// DataSet is the ordered collection of per-particle buffers owned by one
// group on behalf of one consuming behavior (a modifier, renderer or
// interpolator). Every buffer is swapped in lockstep with the group's
// built-in attributes.
type DataSet struct {
	data        []Data
	initialized bool
}

// Init sizes the set to n empty slots, destroying any previous content.
func (d *DataSet) Init(n int) {
	d.DestroyAll()
	d.data = make([]Data, n)
	d.initialized = true
}

// SetData installs buffer into slot index, replacing what was there.
func (d *DataSet) SetData(index int, buffer Data) {
	if index < 0 || index >= len(d.data) {
		panic(fmt.Sprintf("core: data set slot %d out of range [0, %d)", index, len(d.data)))
	}
	d.data[index] = buffer
}

// Data returns the buffer in slot index.
func (d *DataSet) Data(index int) Data {
	return d.data[index]
}

// Len returns the number of slots.
func (d *DataSet) Len() int { return len(d.data) }

// Initialized reports whether Init has been called since the last DestroyAll.
func (d *DataSet) Initialized() bool { return d.initialized }

// DestroyAll drops every buffer and marks the set uninitialized. Buffers
// holding objects implement Destructible to release them.
func (d *DataSet) DestroyAll() {
	for i, data := range d.data {
		if dd, ok := data.(Destructible); ok {
			dd.Destroy()
		}
		d.data[i] = nil
	}
	d.data = nil
	d.initialized = false
}

// Swap exchanges particles i and j in every buffer.
func (d *DataSet) Swap(i, j int) {
	for _, data := range d.data {
		if data != nil {
			data.Swap(i, j)
		}
	}
}

// DataAt returns slot index of d as a concrete buffer type. It panics if
// the slot holds a different type.
func DataAt[T Data](d *DataSet, index int) T {
	v, ok := d.data[index].(T)
	if !ok {
		panic(fmt.Sprintf("core: data set slot %d holds %T", index, d.data[index]))
	}
	return v
}

// DataHandler is implemented by behaviors that keep per-particle state in
// a DataSet owned by the group.
//
// CreateData fills a freshly initialized set; it is called when the set is
// first built and whenever it must be rebuilt (capacity change, stale
// layout). CheckData runs at the start of every group update and reports
// whether the layout no longer matches the behavior's configuration; the
// group then rebuilds the set and re-initializes every alive particle.
type DataHandler interface {
	NeedsDataSet() bool
	CreateData(d *DataSet, g *Group)
	CheckData(d *DataSet, g *Group) bool
}

// ParticleInitializer is implemented by behaviors that must seed state for
// each newly spawned particle.
type ParticleInitializer interface {
	InitParticle(p Particle, d *DataSet)
}
