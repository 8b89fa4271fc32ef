package basis

import (
	"fmt"
	"strconv"
	"strings"

	"symbinmd/internal/models"
)

// canonical unit vectors for the named axes of an axis-aligned binning
var alignedAxes = map[string]Vector{
	"h":       {Name: "h", Unit: "rlu", Direction: [3]float64{1, 0, 0}, Fourth: "0"},
	"H":       {Name: "h", Unit: "rlu", Direction: [3]float64{1, 0, 0}, Fourth: "0"},
	"k":       {Name: "k", Unit: "rlu", Direction: [3]float64{0, 1, 0}, Fourth: "0"},
	"K":       {Name: "k", Unit: "rlu", Direction: [3]float64{0, 1, 0}, Fourth: "0"},
	"l":       {Name: "l", Unit: "rlu", Direction: [3]float64{0, 0, 1}, Fourth: "0"},
	"L":       {Name: "l", Unit: "rlu", Direction: [3]float64{0, 0, 1}, Fourth: "0"},
	"E":       {Name: "E", Unit: "eV", Direction: [3]float64{0, 0, 0}, Fourth: "1"},
	"DeltaE":  {Name: "E", Unit: "eV", Direction: [3]float64{0, 0, 0}, Fourth: "1"},
	"deltaE":  {Name: "E", Unit: "eV", Direction: [3]float64{0, 0, 0}, Fourth: "1"},
	"delta E": {Name: "E", Unit: "eV", Direction: [3]float64{0, 0, 0}, Fourth: "1"},
}

// AlignedDim is one converted axis-aligned dimension.
type AlignedDim struct {
	Basis Vector
	Min   float64
	Max   float64
	Bins  int
}

// ConvertAligned converts "name,min,max,bins" into a canonical basis vector
// with its extent and bin count.
func ConvertAligned(spec string) (AlignedDim, error) {
	fields := strings.Split(spec, ",")
	if len(fields) != 4 {
		return AlignedDim{}, fmt.Errorf("%w: %q has %d fields, expected 4 (name,min,max,bins)",
			models.ErrFormat, spec, len(fields))
	}

	name := strings.TrimSpace(fields[0])
	vec, ok := alignedAxes[name]
	if !ok {
		return AlignedDim{}, fmt.Errorf("%w: unrecognized axis name %q", models.ErrConfiguration, name)
	}

	lo, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return AlignedDim{}, fmt.Errorf("%w: min of %q is not a number", models.ErrFormat, spec)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return AlignedDim{}, fmt.Errorf("%w: max of %q is not a number", models.ErrFormat, spec)
	}
	bins, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return AlignedDim{}, fmt.Errorf("%w: bins of %q is not an integer", models.ErrFormat, spec)
	}

	return AlignedDim{Basis: vec, Min: lo, Max: hi, Bins: bins}, nil
}

// AlignedBinning converts the four aligned dimension specs into a basis set,
// output extents and bin counts, in dimension order 0..3.
func AlignedBinning(specs [NumSlots]string) (Set, [2 * NumSlots]float64, [NumSlots]int, error) {
	var (
		set     Set
		extents [2 * NumSlots]float64
		bins    [NumSlots]int
	)
	for i, spec := range specs {
		dim, err := ConvertAligned(spec)
		if err != nil {
			return Set{}, extents, bins, fmt.Errorf("aligned dimension %d: %w", i, err)
		}
		set[i] = Present(dim.Basis)
		extents[2*i] = dim.Min
		extents[2*i+1] = dim.Max
		bins[i] = dim.Bins
	}
	return set, extents, bins, nil
}
