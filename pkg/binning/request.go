// Package binning projects measured events onto a set of basis vectors and
// histograms them, in the manner of an MD re-binning service.
package binning

import (
	"fmt"
	"strings"

	"symbinmd/internal/models"
	"symbinmd/pkg/basis"
)

// Request is one re-binning pass. Only the basis-vector directions change
// between the passes of a symmetry expansion.
type Request struct {
	Basis       basis.Set
	Normalize   bool
	Translation [4]float64
	Extents     [8]float64
	Bins        [4]int
	AxisAligned bool
}

// BasisStrings returns the fully specified basis-vector strings, "" for
// absent slots.
func (r Request) BasisStrings() [basis.NumSlots]string {
	return r.Basis.Strings()
}

// String summarises the request for logs.
func (r Request) String() string {
	present := make([]string, 0, basis.NumSlots)
	for _, s := range r.BasisStrings() {
		if s != "" {
			present = append(present, "["+s+"]")
		}
	}
	return fmt.Sprintf("basis=%s normalize=%t translation=%v extents=%v bins=%v",
		strings.Join(present, " "), r.Normalize, r.Translation, r.Extents, r.Bins)
}

// Binner is the binning service: it turns a request into a histogram.
type Binner interface {
	Bin(req Request) (*models.Histogram, error)
}
