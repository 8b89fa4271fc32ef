package models

import "errors"

// Error kinds surfaced by every stage of a symmetrised binning run. Callers
// match them with errors.Is; the wrapping message names the basis-vector
// slot, aligned dimension or operation index that failed.
var (
	// ErrFormat reports a malformed basis-vector, dimension or operation string.
	ErrFormat = errors.New("format error")

	// ErrConfiguration reports inputs that are well formed but unusable.
	ErrConfiguration = errors.New("configuration error")

	// ErrSymmetryLookup reports a space group with no registered symbol or point group.
	ErrSymmetryLookup = errors.New("symmetry lookup error")

	// ErrBinning reports a failure of the binning service.
	ErrBinning = errors.New("binning failure")

	// ErrShapeMismatch reports accumulation of histograms with different shapes.
	ErrShapeMismatch = errors.New("histogram shape mismatch")
)
