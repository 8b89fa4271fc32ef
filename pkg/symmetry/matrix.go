// Package symmetry applies crystallographic point-group operations to basis
// vectors: coordinate-triplet parsing, the fixed catalog of explicit
// operations, the orthogonal/hexagonal frame transform, and orbit
// generation with joint-tuple deduplication.
package symmetry

import (
	"fmt"
	"strings"

	"symbinmd/internal/models"
)

// Matrix is the integer rotation part of a symmetry operation. Row i holds
// the coefficients of x, y and z in the i-th output coordinate.
type Matrix [3][3]int

// Identity is the identity operation "x,y,z".
var Identity = Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

var axisNames = [3]string{"x", "y", "z"}

// ParseTriplet parses a coordinate triplet such as "-y,x-y,z". Only the
// rotation part is accepted; translations are rejected.
func ParseTriplet(s string) (Matrix, error) {
	var m Matrix

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return m, fmt.Errorf("%w: operation %q must have 3 components", models.ErrFormat, s)
	}

	for row, part := range parts {
		part = strings.ReplaceAll(strings.TrimSpace(part), " ", "")
		if part == "" {
			return m, fmt.Errorf("%w: operation %q has an empty component", models.ErrFormat, s)
		}

		sign := 1
		pendingSign := false
		for _, c := range strings.ToLower(part) {
			switch c {
			case '+':
				if pendingSign {
					return m, fmt.Errorf("%w: operation %q has repeated signs", models.ErrFormat, s)
				}
				sign, pendingSign = 1, true
			case '-':
				if pendingSign {
					return m, fmt.Errorf("%w: operation %q has repeated signs", models.ErrFormat, s)
				}
				sign, pendingSign = -1, true
			case 'x', 'y', 'z':
				m[row][c-'x'] += sign
				sign, pendingSign = 1, false
			default:
				return m, fmt.Errorf("%w: operation %q contains %q", models.ErrFormat, s, c)
			}
		}
		if pendingSign {
			return m, fmt.Errorf("%w: operation %q ends with a sign", models.ErrFormat, s)
		}
	}

	if d := m.Det(); d != 1 && d != -1 {
		return Matrix{}, fmt.Errorf("%w: operation %q is not a point-group operation (det %d)", models.ErrFormat, s, d)
	}
	return m, nil
}

// MustParseTriplet is ParseTriplet for package-level tables.
func MustParseTriplet(s string) Matrix {
	m, err := ParseTriplet(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String formats the matrix as a coordinate triplet.
func (m Matrix) String() string {
	rows := make([]string, 3)
	for i := 0; i < 3; i++ {
		var b strings.Builder
		for j := 0; j < 3; j++ {
			c := m[i][j]
			if c == 0 {
				continue
			}
			if c < 0 {
				b.WriteByte('-')
			} else if b.Len() > 0 {
				b.WriteByte('+')
			}
			if c > 1 || c < -1 {
				fmt.Fprintf(&b, "%d", abs(c))
			}
			b.WriteString(axisNames[j])
		}
		if b.Len() == 0 {
			b.WriteByte('0')
		}
		rows[i] = b.String()
	}
	return strings.Join(rows, ",")
}

// Mul returns the composition m*o (o applied first).
func (m Matrix) Mul(o Matrix) Matrix {
	var r Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

// Det returns the determinant.
func (m Matrix) Det() int {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Transpose returns the transposed matrix.
func (m Matrix) Transpose() Matrix {
	var r Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Inverse returns the exact inverse. Point-group matrices have determinant
// +1 or -1, so the adjugate scaled by the determinant is integral.
func (m Matrix) Inverse() Matrix {
	d := m.Det()
	var adj Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			// cofactor of (j,i)
			r0, r1 := others(j)
			c0, c1 := others(i)
			minor := m[r0][c0]*m[r1][c1] - m[r0][c1]*m[r1][c0]
			if (i+j)%2 == 1 {
				minor = -minor
			}
			adj[i][j] = minor * d
		}
	}
	return adj
}

// Apply transforms a coordinate vector: M v.
func (m Matrix) Apply(v [3]float64) [3]float64 {
	var r [3]float64
	for i := 0; i < 3; i++ {
		r[i] = float64(m[i][0])*v[0] + float64(m[i][1])*v[1] + float64(m[i][2])*v[2]
	}
	return r
}

// ApplyHKL transforms a reciprocal-space vector: (M^-1)^T h.
func (m Matrix) ApplyHKL(hkl [3]float64) [3]float64 {
	return m.Inverse().Transpose().Apply(hkl)
}

func others(i int) (int, int) {
	switch i {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
