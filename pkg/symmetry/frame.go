package symmetry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// LatticeFamily selects the coordinate frame in which point-group
// operations are defined.
type LatticeFamily int

const (
	// Orthogonal lattices use the working frame directly.
	Orthogonal LatticeFamily = iota

	// Hexagonal covers the trigonal and hexagonal crystal families, whose
	// a* and b* axes are 60 degrees apart.
	Hexagonal
)

func (f LatticeFamily) String() string {
	switch f {
	case Hexagonal:
		return "hexagonal"
	default:
		return "orthogonal"
	}
}

// Space-group numbers of the trigonal and hexagonal families.
const (
	firstHexagonalGroup = 143
	lastHexagonalGroup  = 194
)

// FamilyForSpaceGroup returns the lattice family of an International Tables
// space-group number.
func FamilyForSpaceGroup(number int) LatticeFamily {
	if number >= firstHexagonalGroup && number <= lastHexagonalGroup {
		return Hexagonal
	}
	return Orthogonal
}

// FrameTransform converts directions between the orthogonal working frame
// and the crystallographic frame of a lattice family.
type FrameTransform struct {
	family  LatticeFamily
	forward *mat.Dense
	inverse *mat.Dense
}

// NewFrameTransform builds the matrix pair for a lattice family.
func NewFrameTransform(family LatticeFamily) *FrameTransform {
	t := &FrameTransform{family: family}

	switch family {
	case Hexagonal:
		s3 := math.Sqrt(3)
		t.forward = mat.NewDense(3, 3, []float64{
			1, -1 / s3, 0,
			0, 2 / s3, 0,
			0, 0, 1,
		})
		t.inverse = mat.NewDense(3, 3, []float64{
			1, 0.5, 0,
			0, s3 / 2, 0,
			0, 0, 1,
		})
	default:
		t.forward = identity3()
		t.inverse = identity3()
	}
	return t
}

// FrameForSpaceGroup returns the transform for a space-group number.
func FrameForSpaceGroup(number int) *FrameTransform {
	return NewFrameTransform(FamilyForSpaceGroup(number))
}

// Family returns the lattice family of the transform.
func (t *FrameTransform) Family() LatticeFamily {
	return t.family
}

// ForwardMatrix returns the orthogonal-to-crystallographic matrix.
func (t *FrameTransform) ForwardMatrix() mat.Matrix {
	return t.forward
}

// InverseMatrix returns the crystallographic-to-orthogonal matrix.
func (t *FrameTransform) InverseMatrix() mat.Matrix {
	return t.inverse
}

// Forward maps an orthogonal-frame direction into the crystallographic frame.
func (t *FrameTransform) Forward(v [3]float64) [3]float64 {
	return mulVec(t.forward, v)
}

// Inverse maps a crystallographic-frame direction back to the orthogonal frame.
func (t *FrameTransform) Inverse(v [3]float64) [3]float64 {
	return mulVec(t.inverse, v)
}

func mulVec(m *mat.Dense, v [3]float64) [3]float64 {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, []float64{v[0], v[1], v[2]}))
	return [3]float64{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

func identity3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}
