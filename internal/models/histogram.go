package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Dimension describes one output axis of a histogram
type Dimension struct {
	Name string
	Unit string
	Min  float64
	Max  float64
	Bins int
}

// Width returns the width of a single bin along the dimension.
func (d Dimension) Width() float64 {
	return (d.Max - d.Min) / float64(d.Bins)
}

// BinIndex maps a coordinate onto a bin. Coordinates outside [Min, Max)
// report false.
func (d Dimension) BinIndex(coord float64) (int, bool) {
	if math.IsNaN(coord) || coord < d.Min || coord >= d.Max {
		return 0, false
	}
	i := int((coord - d.Min) / d.Width())
	if i >= d.Bins {
		// rounding at the upper edge
		i = d.Bins - 1
	}
	return i, true
}

// Histogram is a dense multi-dimensional histogram of signal, squared error
// and event counts. Data is stored row-major with dimension 0 varying fastest.
type Histogram struct {
	// Dims describes each axis, in output order
	Dims []Dimension

	// Signal is the summed event signal per bin
	Signal []float64

	// ErrorSq is the summed squared error per bin
	ErrorSq []float64

	// NumEvents counts the events that landed in each bin
	NumEvents []float64
}

// Summary holds aggregate statistics of a histogram.
type Summary struct {
	TotalSignal   float64
	TotalEvents   float64
	PopulatedBins int
	MeanSignal    float64
	StdDevSignal  float64
}

// NewHistogram allocates an empty histogram with the given dimensions.
func NewHistogram(dims []Dimension) (*Histogram, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("histogram needs at least one dimension")
	}
	size := 1
	for i, d := range dims {
		if d.Bins < 1 {
			return nil, fmt.Errorf("dimension %d (%s): bins must be positive, got %d", i, d.Name, d.Bins)
		}
		if !(d.Max > d.Min) {
			return nil, fmt.Errorf("dimension %d (%s): max %g must exceed min %g", i, d.Name, d.Max, d.Min)
		}
		size *= d.Bins
	}

	h := &Histogram{
		Dims:      append([]Dimension(nil), dims...),
		Signal:    make([]float64, size),
		ErrorSq:   make([]float64, size),
		NumEvents: make([]float64, size),
	}
	return h, nil
}

// Size returns the total number of bins.
func (h *Histogram) Size() int {
	return len(h.Signal)
}

// Shape returns the number of bins along each dimension.
func (h *Histogram) Shape() []int {
	shape := make([]int, len(h.Dims))
	for i, d := range h.Dims {
		shape[i] = d.Bins
	}
	return shape
}

// Index converts per-dimension bin indices into a flat offset.
func (h *Histogram) Index(idx []int) int {
	offset := 0
	stride := 1
	for d, i := range idx {
		offset += i * stride
		stride *= h.Dims[d].Bins
	}
	return offset
}

// SameShape reports whether two histograms can be accumulated. Dimension
// names may differ between symmetry-equivalent passes; extents and bin
// counts may not.
func (h *Histogram) SameShape(o *Histogram) bool {
	if o == nil || len(h.Dims) != len(o.Dims) {
		return false
	}
	for i := range h.Dims {
		a, b := h.Dims[i], o.Dims[i]
		if a.Bins != b.Bins || a.Min != b.Min || a.Max != b.Max {
			return false
		}
	}
	return true
}

// Add accumulates o into h elementwise.
func (h *Histogram) Add(o *Histogram) error {
	if !h.SameShape(o) {
		return fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, h.Shape(), shapeOf(o))
	}
	floats.Add(h.Signal, o.Signal)
	floats.Add(h.ErrorSq, o.ErrorSq)
	floats.Add(h.NumEvents, o.NumEvents)
	return nil
}

// Clone returns a deep copy of the histogram.
func (h *Histogram) Clone() *Histogram {
	return &Histogram{
		Dims:      append([]Dimension(nil), h.Dims...),
		Signal:    append([]float64(nil), h.Signal...),
		ErrorSq:   append([]float64(nil), h.ErrorSq...),
		NumEvents: append([]float64(nil), h.NumEvents...),
	}
}

// Summary computes aggregate statistics over the populated bins.
func (h *Histogram) Summary() Summary {
	var s Summary
	s.TotalSignal = floats.Sum(h.Signal)
	s.TotalEvents = floats.Sum(h.NumEvents)

	populated := make([]float64, 0, len(h.Signal))
	for i, n := range h.NumEvents {
		if n > 0 {
			populated = append(populated, h.Signal[i])
		}
	}
	s.PopulatedBins = len(populated)
	if len(populated) > 0 {
		s.MeanSignal = stat.Mean(populated, nil)
	}
	if len(populated) > 1 {
		s.StdDevSignal = stat.StdDev(populated, nil)
	}
	return s
}

func shapeOf(h *Histogram) []int {
	if h == nil {
		return nil
	}
	return h.Shape()
}
