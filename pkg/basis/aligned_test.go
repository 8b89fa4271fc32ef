package basis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbinmd/internal/models"
)

func TestConvertAligned(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"h,-3,3,10", "h,rlu,1,0,0,0"},
		{"H,-3,3,10", "h,rlu,1,0,0,0"},
		{"K,-3,3,10", "k,rlu,0,1,0,0"},
		{"L,-1,1,1", "l,rlu,0,0,1,0"},
		{"l,-1,1,1", "l,rlu,0,0,1,0"},
		{"E,-3,3,1", "E,eV,0,0,0,1"},
		{"DeltaE,0,10,5", "E,eV,0,0,0,1"},
		{"deltaE,0,10,5", "E,eV,0,0,0,1"},
		{"delta E,0,10,5", "E,eV,0,0,0,1"},
	}
	for _, tt := range tests {
		dim, err := ConvertAligned(tt.spec)
		require.NoError(t, err, tt.spec)
		assert.Equal(t, tt.want, dim.Basis.String(), tt.spec)
	}

	dim, err := ConvertAligned("h,-3,3,10")
	require.NoError(t, err)
	assert.Equal(t, -3.0, dim.Min)
	assert.Equal(t, 3.0, dim.Max)
	assert.Equal(t, 10, dim.Bins)
}

func TestConvertAlignedErrors(t *testing.T) {
	_, err := ConvertAligned("q,-3,3,10")
	assert.True(t, errors.Is(err, models.ErrConfiguration), "unknown axis: %v", err)

	_, err = ConvertAligned("e,-3,3,10")
	assert.True(t, errors.Is(err, models.ErrConfiguration), "names are case sensitive: %v", err)

	_, err = ConvertAligned("h,-3,3")
	assert.True(t, errors.Is(err, models.ErrFormat), "missing bins: %v", err)

	_, err = ConvertAligned("h,low,3,10")
	assert.True(t, errors.Is(err, models.ErrFormat), "bad min: %v", err)

	_, err = ConvertAligned("h,-3,3,2.5")
	assert.True(t, errors.Is(err, models.ErrFormat), "bad bins: %v", err)
}

func TestAlignedBinning(t *testing.T) {
	set, extents, bins, err := AlignedBinning([NumSlots]string{"h,-3,3,10", "k,-2,2,8", "l,-1,1,1", "E,0,5,2"})
	require.NoError(t, err)

	assert.Equal(t, 4, set.Count())
	assert.Equal(t, [NumSlots]string{"h,rlu,1,0,0,0", "k,rlu,0,1,0,0", "l,rlu,0,0,1,0", "E,eV,0,0,0,1"}, set.Strings())
	assert.Equal(t, [8]float64{-3, 3, -2, 2, -1, 1, 0, 5}, extents)
	assert.Equal(t, [NumSlots]int{10, 8, 1, 2}, bins)

	_, _, _, err = AlignedBinning([NumSlots]string{"h,-3,3,10", "x,-2,2,8", "l,-1,1,1", "E,0,5,2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aligned dimension 1")
}

func TestConvertAlignedNameCase(t *testing.T) {
	// upper-case h, k and l are accepted; every other name is exact
	for _, name := range []string{"e", "deltae", "DELTAE", "Delta E", "hh"} {
		_, err := ConvertAligned(name + ",0,1,1")
		assert.True(t, errors.Is(err, models.ErrConfiguration), "%q: got %v", name, err)
	}
}
