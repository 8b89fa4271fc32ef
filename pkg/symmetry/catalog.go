package symmetry

import (
	"fmt"
	"strings"

	"symbinmd/internal/models"
)

// Op is one member of the fixed catalog of explicit symmetry operations:
// signed axis permutations plus the shear forms used for hexagonal settings.
type Op uint8

// OpIdentity is "x,y,z".
const OpIdentity Op = 0

var catalogTriplets = [...]string{
	"x,y,z",
	"x,y,-z",
	"x,-y,z",
	"x,-y,-z",
	"-x,y,z",
	"-x,y,-z",
	"-x,-y,z",
	"-x,-y,-z",
	"x,z,y",
	"x,z,-y",
	"x,-z,y",
	"x,-z,-y",
	"-x,z,y",
	"-x,z,-y",
	"-x,-z,y",
	"-x,-z,-y",
	"y,x,z",
	"y,x,-z",
	"y,-x,z",
	"y,-x,-z",
	"-y,x,z",
	"-y,x,-z",
	"-y,-x,z",
	"-y,-x,-z",
	"y,z,x",
	"y,z,-x",
	"y,-z,x",
	"y,-z,-x",
	"-y,z,x",
	"-y,z,-x",
	"-y,-z,x",
	"-y,-z,-x",
	"z,x,y",
	"z,x,-y",
	"z,-x,y",
	"z,-x,-y",
	"-z,x,y",
	"-z,x,-y",
	"-z,-x,y",
	"-z,-x,-y",
	"z,y,x",
	"z,y,-x",
	"z,-y,x",
	"z,-y,-x",
	"-z,y,x",
	"-z,y,-x",
	"-z,-y,x",
	"-z,-y,-x",
	"x,x-y,z",
	"x,x-y,-z",
	"-x,-x+y,z",
	"-x,-x+y,-z",
	"y,-x+y,z",
	"y,-x+y,-z",
	"-y,x-y,z",
	"-y,x-y,-z",
	"x-y,x,z",
	"x-y,x,-z",
	"x-y,-y,z",
	"x-y,-y,-z",
	"-x+y,y,z",
	"-x+y,y,-z",
	"-x+y,-x,z",
	"-x+y,-x,-z",
}

var catalogMatrices [len(catalogTriplets)]Matrix

func init() {
	for i, s := range catalogTriplets {
		catalogMatrices[i] = MustParseTriplet(s)
	}
}

// Catalog returns every explicit operation in catalog order.
func Catalog() []Op {
	ops := make([]Op, len(catalogTriplets))
	for i := range ops {
		ops[i] = Op(i)
	}
	return ops
}

// ParseOp looks up an operation string in the catalog. Whitespace is ignored.
func ParseOp(s string) (Op, error) {
	key := strings.ReplaceAll(s, " ", "")
	for i, t := range catalogTriplets {
		if t == key {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not a recognized symmetry operation", models.ErrFormat, s)
}

// Valid reports whether op is a catalog member.
func (op Op) Valid() bool {
	return int(op) < len(catalogTriplets)
}

// String returns the operation's coordinate triplet.
func (op Op) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Op(%d)", op)
	}
	return catalogTriplets[op]
}

// Matrix returns the operation's rotation matrix.
func (op Op) Matrix() Matrix {
	return catalogMatrices[op]
}

// Apply transforms a direction directly in the frame it is given in.
func (op Op) Apply(v [3]float64) [3]float64 {
	return catalogMatrices[op].Apply(v)
}
