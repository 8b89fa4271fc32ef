// Package basis parses and formats the basis vectors that define a
// re-binning transform. A binning request carries up to four basis-vector
// slots; each slot is either present or absent.
package basis

import (
	"fmt"
	"strconv"
	"strings"

	"symbinmd/internal/models"
)

// NumSlots is the number of basis-vector slots in a binning transform.
const NumSlots = 4

// numFields is the field count of "name,units,x,y,z,label".
const numFields = 6

// Vector is one basis vector: a direction in reciprocal space plus the
// metadata the binning service needs to label the output axis.
type Vector struct {
	Name string
	Unit string

	// Direction holds the h,k,l-like components. Parsed vectors always hold
	// integers; symmetry images may not.
	Direction [3]float64

	// Fourth is the fourth-dimension component, carried through verbatim
	Fourth string
}

// String formats the vector as "name,unit,x,y,z,label".
func (v Vector) String() string {
	parts := []string{
		v.Name,
		v.Unit,
		formatComponent(v.Direction[0]),
		formatComponent(v.Direction[1]),
		formatComponent(v.Direction[2]),
		v.Fourth,
	}
	return strings.Join(parts, ",")
}

// WithDirection returns a copy of v pointing along direction.
func (v Vector) WithDirection(direction [3]float64) Vector {
	v.Direction = direction
	return v
}

func formatComponent(x float64) string {
	if x == 0 {
		// drop the sign of negative zero
		x = 0
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Slot holds either a present basis vector or nothing.
type Slot struct {
	vec     Vector
	present bool
}

// Present wraps a basis vector in a filled slot.
func Present(v Vector) Slot {
	return Slot{vec: v, present: true}
}

// Absent returns an empty slot.
func Absent() Slot {
	return Slot{}
}

// Get returns the vector and whether the slot is filled.
func (s Slot) Get() (Vector, bool) {
	return s.vec, s.present
}

// IsPresent reports whether the slot holds a vector.
func (s Slot) IsPresent() bool {
	return s.present
}

// String returns the fully specified vector string, or "" when absent.
func (s Slot) String() string {
	if !s.present {
		return ""
	}
	return s.vec.String()
}

// Set is the ordered collection of basis-vector slots of one transform.
type Set [NumSlots]Slot

// Count returns the number of present slots.
func (s Set) Count() int {
	n := 0
	for _, slot := range s {
		if slot.present {
			n++
		}
	}
	return n
}

// Indices returns the indices of present slots in order.
func (s Set) Indices() []int {
	idx := make([]int, 0, NumSlots)
	for i, slot := range s {
		if slot.present {
			idx = append(idx, i)
		}
	}
	return idx
}

// Strings returns the per-slot vector strings, "" for absent slots.
func (s Set) Strings() [NumSlots]string {
	var out [NumSlots]string
	for i, slot := range s {
		out[i] = slot.String()
	}
	return out
}

// WithDirections returns a copy of s whose present vectors point along the
// given directions. Absent slots stay absent.
func (s Set) WithDirections(dirs [NumSlots][3]float64) Set {
	var out Set
	for i, slot := range s {
		if slot.present {
			out[i] = Present(slot.vec.WithDirection(dirs[i]))
		}
	}
	return out
}

// Parse reads a basis vector from "name,units,x,y,z,label". An empty string
// yields an absent slot.
func Parse(raw string) (Slot, error) {
	if strings.TrimSpace(raw) == "" {
		return Absent(), nil
	}

	fields := strings.Split(raw, ",")
	if len(fields) != numFields {
		return Absent(), fmt.Errorf("%w: %q has %d fields, expected %d (name,units,x,y,z,label)",
			models.ErrFormat, raw, len(fields), numFields)
	}

	v := Vector{
		Name:   strings.TrimSpace(fields[0]),
		Unit:   strings.TrimSpace(fields[1]),
		Fourth: strings.TrimSpace(fields[5]),
	}
	for i := 0; i < 3; i++ {
		c, err := strconv.Atoi(strings.TrimSpace(fields[2+i]))
		if err != nil {
			return Absent(), fmt.Errorf("%w: component %d of %q is not an integer", models.ErrFormat, i, raw)
		}
		v.Direction[i] = float64(c)
	}
	return Present(v), nil
}

// ParseSet parses all four slots. Slot 0 must be present; an entirely empty
// set cannot be binned.
func ParseSet(raw [NumSlots]string) (Set, error) {
	var set Set
	for i, r := range raw {
		slot, err := Parse(r)
		if err != nil {
			return Set{}, fmt.Errorf("basis vector %d: %w", i, err)
		}
		set[i] = slot
	}
	if err := set.Validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

// Validate checks slot presence rules.
func (s Set) Validate() error {
	if s.Count() == 0 {
		return fmt.Errorf("%w: cannot bin with no basis vectors", models.ErrConfiguration)
	}
	if !s[0].present {
		return fmt.Errorf("%w: basis vector 0 must be defined", models.ErrConfiguration)
	}
	return nil
}
