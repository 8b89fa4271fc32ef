package basis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbinmd/internal/models"
)

func TestParse(t *testing.T) {
	slot, err := Parse("a,unit,1,-1,0,0")
	require.NoError(t, err)
	v, ok := slot.Get()
	require.True(t, ok)
	assert.Equal(t, "a", v.Name)
	assert.Equal(t, "unit", v.Unit)
	assert.Equal(t, [3]float64{1, -1, 0}, v.Direction)
	assert.Equal(t, "0", v.Fourth)
}

func TestParseEmptyIsAbsent(t *testing.T) {
	for _, raw := range []string{"", "   "} {
		slot, err := Parse(raw)
		require.NoError(t, err)
		assert.False(t, slot.IsPresent(), "%q should be absent", raw)
		assert.Equal(t, "", slot.String())
	}
}

func TestParseFormatErrors(t *testing.T) {
	cases := map[string]string{
		"five fields":   "a,unit,1,0,0",
		"seven fields":  "a,unit,1,0,0,0,9",
		"non integer x": "a,unit,x,0,0,0",
		"float z":       "a,unit,1,0,0.5,0",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrFormat), "got %v", err)
		})
	}
}

func TestVectorStringRoundTrip(t *testing.T) {
	raw := "b,unit,0,0,1,0"
	slot, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, slot.String())

	v, _ := slot.Get()
	moved := v.WithDirection([3]float64{0.5, -0.8660254037844386, 1})
	assert.Equal(t, "b,unit,0.5,-0.8660254037844386,1,0", moved.String())
	assert.Equal(t, [3]float64{0, 0, 1}, v.Direction, "WithDirection must not mutate the receiver")
}

func TestParseSet(t *testing.T) {
	set, err := ParseSet([NumSlots]string{"a,unit,1,1,0,0", "", "c,unit,1,-1,0,0", ""})
	require.NoError(t, err)
	assert.Equal(t, 2, set.Count())
	assert.Equal(t, []int{0, 2}, set.Indices())
	assert.Equal(t, [NumSlots]string{"a,unit,1,1,0,0", "", "c,unit,1,-1,0,0", ""}, set.Strings())
}

func TestParseSetErrors(t *testing.T) {
	_, err := ParseSet([NumSlots]string{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
	assert.Contains(t, err.Error(), "cannot bin with no basis vectors")

	_, err = ParseSet([NumSlots]string{"", "b,unit,0,0,1,0", "", ""})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConfiguration))

	_, err = ParseSet([NumSlots]string{"a,unit,1,0,0,0", "", "c,unit,1,0", ""})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrFormat))
	assert.Contains(t, err.Error(), "basis vector 2")
}

func TestWithDirectionsKeepsAbsentSlots(t *testing.T) {
	set, err := ParseSet([NumSlots]string{"a,unit,1,0,0,0", "", "", "E,meV,0,0,0,1"})
	require.NoError(t, err)

	moved := set.WithDirections([NumSlots][3]float64{{0, 1, 0}, {9, 9, 9}, {9, 9, 9}, {0, 0, 0}})
	assert.Equal(t, [NumSlots]string{"a,unit,0,1,0,0", "", "", "E,meV,0,0,0,1"}, moved.Strings())
}

func TestStringNegativeZero(t *testing.T) {
	v := Vector{Name: "E", Unit: "unit", Fourth: "1"}
	v = v.WithDirection([3]float64{math.Copysign(0, -1), 0, math.Copysign(0, -1)})
	assert.Equal(t, "E,unit,0,0,0,1", v.String())
}
