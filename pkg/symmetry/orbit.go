package symmetry

import (
	"fmt"

	"symbinmd/pkg/basis"
)

// Orbit returns the image of direction under every operation, in operation
// order. Each operation acts in the crystallographic frame of t; results are
// returned in the orthogonal frame. Repeats are kept.
func Orbit(direction [3]float64, ops []Matrix, t *FrameTransform) [][3]float64 {
	prime := t.Forward(direction)

	orbit := make([][3]float64, len(ops))
	for i, op := range ops {
		orbit[i] = t.Inverse(op.ApplyHKL(prime))
	}
	return orbit
}

// Orbits holds the orbit of each basis-vector slot; absent slots are nil.
type Orbits [basis.NumSlots][][3]float64

// SetOrbits computes the orbit of every present vector in set.
func SetOrbits(set basis.Set, ops []Matrix, t *FrameTransform) Orbits {
	var o Orbits
	for i, slot := range set {
		if v, ok := slot.Get(); ok {
			o[i] = Orbit(v.Direction, ops, t)
		}
	}
	return o
}

// Tuple is the image of a whole basis-vector set under one operation.
// Absent slots hold the zero vector in every tuple.
type Tuple [basis.NumSlots][3]float64

// Tuples zips the per-slot orbits into one tuple per operation index.
func (o Orbits) Tuples() ([]Tuple, error) {
	n := -1
	for i, orbit := range o {
		if orbit == nil {
			continue
		}
		if n >= 0 && len(orbit) != n {
			return nil, fmt.Errorf("orbit of basis vector %d has %d entries, expected %d", i, len(orbit), n)
		}
		n = len(orbit)
	}
	if n < 0 {
		return nil, nil
	}

	tuples := make([]Tuple, n)
	for i, orbit := range o {
		for k, v := range orbit {
			tuples[k][i] = v
		}
	}
	return tuples, nil
}

// UniqueTuples drops every tuple equal to an earlier one, keeping
// first-occurrence order. Equality is exact on every component.
func UniqueTuples(tuples []Tuple) []Tuple {
	seen := make(map[Tuple]struct{}, len(tuples))
	unique := make([]Tuple, 0, len(tuples))
	for _, t := range tuples {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}
	return unique
}

// Directions returns the tuple as per-slot directions.
func (t Tuple) Directions() [basis.NumSlots][3]float64 {
	return t
}
