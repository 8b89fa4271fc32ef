package symdb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbinmd/internal/models"
	"symbinmd/pkg/symmetry"
)

func TestSymbolLookup(t *testing.T) {
	db := New()

	sym, err := db.SpaceGroupSymbol(198)
	require.NoError(t, err)
	assert.Equal(t, "P 21 3", sym)

	n, err := db.SpaceGroupNumber("P213")
	require.NoError(t, err)
	assert.Equal(t, 198, n)

	for _, bad := range []int{0, 231, -5} {
		_, err := db.SpaceGroupSymbol(bad)
		assert.True(t, errors.Is(err, models.ErrSymmetryLookup), "%d: %v", bad, err)
	}
	_, err = db.SpaceGroupNumber("Q 9 9")
	assert.True(t, errors.Is(err, models.ErrSymmetryLookup))
}

func TestSymbolsAreUniqueAndRoundTrip(t *testing.T) {
	db := New()
	for n := 1; n <= 230; n++ {
		sym, err := db.SpaceGroupSymbol(n)
		require.NoError(t, err)
		back, err := db.SpaceGroupNumber(sym)
		require.NoError(t, err)
		assert.Equal(t, n, back, sym)
	}
}

func TestEveryClassClosesToItsOrder(t *testing.T) {
	for class, pg := range pointGroups {
		ops, err := generate(class)
		require.NoError(t, err, class)
		assert.Len(t, ops, pg.order, class)
		assert.Equal(t, symmetry.Identity, ops[0], class)

		// closed under composition
		index := make(map[symmetry.Matrix]bool, len(ops))
		for _, op := range ops {
			index[op] = true
		}
		for _, a := range ops {
			for _, b := range ops {
				assert.True(t, index[a.Mul(b)], "%s not closed: %s * %s", class, a, b)
			}
		}
	}
}

func TestEverySpaceGroupHasAPointGroup(t *testing.T) {
	db := New()
	for n := 1; n <= 230; n++ {
		sym, _ := db.SpaceGroupSymbol(n)
		ops, err := db.PointGroupOperations(sym)
		require.NoError(t, err, sym)
		assert.NotEmpty(t, ops)
	}
}

func TestClassBoundaries(t *testing.T) {
	db := New()
	cases := map[int]string{
		1: "1", 2: "-1", 3: "2", 6: "m", 10: "2/m", 16: "222", 25: "mm2", 47: "mmm",
		75: "4", 81: "-4", 83: "4/m", 89: "422", 99: "4mm", 111: "-42m", 115: "-4m2",
		121: "-42m", 123: "4/mmm", 142: "4/mmm", 143: "3", 147: "-3", 149: "312", 150: "321",
		155: "321", 156: "3m1", 157: "31m", 160: "3m1", 162: "-31m", 164: "-3m1", 167: "-3m1",
		168: "6", 174: "-6", 175: "6/m", 177: "622", 183: "6mm", 187: "-6m2", 189: "-62m",
		191: "6/mmm", 194: "6/mmm", 195: "23", 198: "23", 200: "m-3", 207: "432", 215: "-43m",
		221: "m-3m", 230: "m-3m",
	}
	for n, want := range cases {
		got, err := db.PointGroupSymbol(n)
		require.NoError(t, err)
		assert.Equal(t, want, got, "space group %d", n)
	}
}

func TestPointGroup23(t *testing.T) {
	db := New()
	ops, err := db.PointGroupOperations("P 21 3")
	require.NoError(t, err)
	require.Len(t, ops, 12)

	for _, op := range ops {
		assert.Equal(t, 1, op.Det(), "23 contains proper rotations only: %s", op)
	}

	// callers cannot corrupt the cache
	ops[0] = symmetry.Matrix{}
	again, _ := db.PointGroupOperations("P 21 3")
	assert.Equal(t, symmetry.Identity, again[0])
}
