package core

import "fmt"

// Data is one per-particle buffer inside a DataSet. The only capability the
// group needs is swapping two particle slots during compaction.
type Data interface {
	Swap(i, j int)
}

// ArrayData is a contiguous buffer of capacity*sizePerParticle elements.
// Particle i owns elements [i*sizePerParticle, (i+1)*sizePerParticle).
type ArrayData[T any] struct {
	data            []T
	sizePerParticle int
}

// NewArrayData allocates a zeroed buffer for capacity particles.
func NewArrayData[T any](capacity, sizePerParticle int) *ArrayData[T] {
	if capacity < 0 || sizePerParticle <= 0 {
		panic(fmt.Sprintf("core: invalid array data shape %dx%d", capacity, sizePerParticle))
	}
	return &ArrayData[T]{
		data:            make([]T, capacity*sizePerParticle),
		sizePerParticle: sizePerParticle,
	}
}

// Data returns the whole backing slice.
func (a *ArrayData[T]) Data() []T { return a.data }

// SizePerParticle returns the number of elements owned by each particle.
func (a *ArrayData[T]) SizePerParticle() int { return a.sizePerParticle }

// TotalSize returns the number of elements in the buffer.
func (a *ArrayData[T]) TotalSize() int { return len(a.data) }

// Capacity returns the number of particle slots.
func (a *ArrayData[T]) Capacity() int { return len(a.data) / a.sizePerParticle }

// ParticleData returns the elements owned by particle index. The returned
// slice is capped so appends cannot spill into the next particle.
func (a *ArrayData[T]) ParticleData(index int) []T {
	start := index * a.sizePerParticle
	end := start + a.sizePerParticle
	return a.data[start:end:end]
}

// At returns a pointer to the first element owned by particle index.
func (a *ArrayData[T]) At(index int) *T {
	return &a.data[index*a.sizePerParticle]
}

// Swap exchanges the element blocks of particles i and j.
func (a *ArrayData[T]) Swap(i, j int) {
	if i == j {
		return
	}
	n := a.sizePerParticle
	if n == 1 {
		a.data[i], a.data[j] = a.data[j], a.data[i]
		return
	}
	pi := a.data[i*n : (i+1)*n]
	pj := a.data[j*n : (j+1)*n]
	for k := range pi {
		pi[k], pj[k] = pj[k], pi[k]
	}
}

// Fill sets every element owned by particle index to v.
func (a *ArrayData[T]) Fill(index int, v T) {
	block := a.ParticleData(index)
	for k := range block {
		block[k] = v
	}
}

// Float32ArrayData, Float64ArrayData and ColorArrayData are the common
// instantiations.
type (
	Float32ArrayData = ArrayData[float32]
	Float64ArrayData = ArrayData[float64]
	ColorArrayData   = ArrayData[Color]
)
