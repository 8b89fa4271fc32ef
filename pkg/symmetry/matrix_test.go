package symmetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbinmd/internal/models"
)

func TestParseTriplet(t *testing.T) {
	m, err := ParseTriplet("x,x-y,z")
	require.NoError(t, err)
	assert.Equal(t, Matrix{{1, 0, 0}, {1, -1, 0}, {0, 0, 1}}, m)

	m, err = ParseTriplet(" -x+y , -x , -z ")
	require.NoError(t, err)
	assert.Equal(t, Matrix{{-1, 1, 0}, {-1, 0, 0}, {0, 0, -1}}, m)

	m, err = ParseTriplet("X,Y,Z")
	require.NoError(t, err)
	assert.Equal(t, Identity, m)
}

func TestParseTripletErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"x,y",
		"x,y,z,x",
		"x,,z",
		"x+1/2,y,z",
		"x,y,z-",
		"x,--y,z",
		"x,x,z",
		"w,y,z",
	} {
		_, err := ParseTriplet(s)
		assert.True(t, errors.Is(err, models.ErrFormat), "%q: got %v", s, err)
	}
}

func TestMatrixStringRoundTrip(t *testing.T) {
	for _, op := range Catalog() {
		assert.Equal(t, op.String(), op.Matrix().String())
	}
}

func TestInverseAndDet(t *testing.T) {
	for _, op := range Catalog() {
		m := op.Matrix()
		d := m.Det()
		assert.True(t, d == 1 || d == -1, "%s: det %d", op, d)
		assert.Equal(t, Identity, m.Mul(m.Inverse()), op.String())
		assert.Equal(t, Identity, m.Inverse().Mul(m), op.String())
	}
}

func TestApply(t *testing.T) {
	m := MustParseTriplet("-y,x-y,z")
	assert.Equal(t, [3]float64{-2, -1, 3}, m.Apply([3]float64{1, 2, 3}))
}

func TestApplyHKLUsesInverseTranspose(t *testing.T) {
	// a 3-fold about z in the hexagonal setting is not orthogonal, so the
	// reciprocal-space action differs from the direct one
	m := MustParseTriplet("-y,x-y,z")
	h := [3]float64{1, 0, 0}

	got := m.ApplyHKL(h)
	assert.Equal(t, [3]float64{-1, 1, 0}, got)
	assert.NotEqual(t, m.Apply(h), got)

	// for orthogonal operations the two coincide
	c := MustParseTriplet("z,x,y")
	v := [3]float64{1, 2, 3}
	assert.Equal(t, c.Apply(v), c.ApplyHKL(v))
}
