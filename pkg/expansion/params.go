// Package expansion drives a symmetrised re-binning run: it validates the
// configuration, bins the unmodified basis once, and then accumulates one
// extra pass per symmetry-equivalent orientation of the basis.
package expansion

import (
	"fmt"
	"strings"

	"symbinmd/internal/models"
	"symbinmd/pkg/basis"
)

// Mode selects how symmetry-equivalent orientations are generated.
type Mode int

const (
	// SpaceGroupMode expands over the point group of a space group.
	SpaceGroupMode Mode = iota

	// ExplicitOpsMode applies a short user-chosen list of operations.
	ExplicitOpsMode
)

// Mode names as used in configuration files.
const (
	SpaceGroupModeName  = "Space Group"
	ExplicitOpsModeName = "Symmetry Operations"
)

func (m Mode) String() string {
	switch m {
	case SpaceGroupMode:
		return SpaceGroupModeName
	case ExplicitOpsMode:
		return ExplicitOpsModeName
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode reads a mode name. Matching ignores case and spaces.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.ReplaceAll(s, " ", "")) {
	case "spacegroup":
		return SpaceGroupMode, nil
	case "symmetryoperations":
		return ExplicitOpsMode, nil
	}
	return 0, fmt.Errorf("%w: unknown symmetrization mode %q", models.ErrConfiguration, s)
}

// Bounds on the configuration.
const (
	MaxOperations     = 5
	MinSpaceGroup     = 1
	MaxSpaceGroup     = 230
	DefaultSpaceGroup = 198
)

// Params is the top-level invocation surface of a run.
type Params struct {
	// Mode selects space-group or explicit-operation expansion
	Mode Mode

	// SpaceGroup is the International Tables number used in SpaceGroupMode
	SpaceGroup int

	// NumOperations is how many of Operations are applied in ExplicitOpsMode
	NumOperations int

	// Operations are catalog operation strings such as "x,-y,z"
	Operations [MaxOperations]string

	// BasisVectors are "name,units,x,y,z,label" strings, "" for absent slots
	BasisVectors [basis.NumSlots]string

	// AxisAligned replaces BasisVectors, Translation, Extents and Bins with
	// the conversion of AlignedDims
	AxisAligned bool

	// AlignedDims are "name,min,max,bins" strings
	AlignedDims [basis.NumSlots]string

	// Normalize scales basis vectors to unit length before binning
	Normalize bool

	// Translation is the input coordinate mapped to the output origin
	Translation [4]float64

	// Extents holds min,max pairs of each output dimension
	Extents [8]float64

	// Bins holds the bin count of each output dimension
	Bins [4]int
}

// DefaultParams returns the stock configuration: space group 198 with three
// spatial basis vectors and an energy axis.
func DefaultParams() *Params {
	return &Params{
		Mode:          SpaceGroupMode,
		SpaceGroup:    DefaultSpaceGroup,
		NumOperations: 1,
		Operations:    [MaxOperations]string{"x,y,z", "x,y,z", "x,y,z", "x,y,z", "x,y,z"},
		BasisVectors:  [basis.NumSlots]string{"a,unit,1,1,0,0", "b,unit,0,0,1,0", "c,unit,1,-1,0,0", "E,unit,0,0,0,1"},
		AlignedDims:   [basis.NumSlots]string{"h,-3,3,10", "k,-3,3,10", "l,-3,3,1", "E,-3,3,1"},
		Normalize:     true,
		Extents:       [8]float64{-5, 5, -5, 5, -0.5, 0.5, 6, 10},
		Bins:          [4]int{50, 50, 1, 1},
	}
}
