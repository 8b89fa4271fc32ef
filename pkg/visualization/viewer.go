// Package visualization renders 2D slices of accumulated histograms as
// heat maps.
package visualization

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"symbinmd/internal/models"
)

// Viewer extracts and renders 2D slices of a histogram.
type Viewer struct {
	// hist holds the accumulated histogram
	hist *models.Histogram

	// colors is the number of palette entries used by heat maps
	colors int
}

// NewViewer creates a new slice viewer for h
func NewViewer(h *models.Histogram) *Viewer {
	return &Viewer{
		hist:   h,
		colors: 64,
	}
}

// Slice is a 2D cut through a histogram. It implements plotter.GridXYZ with
// columns along XDim and rows along YDim.
type Slice struct {
	XDim models.Dimension
	YDim models.Dimension

	// Fixed records the bin index held for every other dimension
	Fixed []int

	// values is row-major with x varying fastest
	values []float64
}

var _ plotter.GridXYZ = (*Slice)(nil)

// Dims returns the number of columns and rows.
func (s *Slice) Dims() (c, r int) {
	return s.XDim.Bins, s.YDim.Bins
}

// Z returns the signal in cell (c, r).
func (s *Slice) Z(c, r int) float64 {
	return s.values[r*s.XDim.Bins+c]
}

// X returns the centre of column c.
func (s *Slice) X(c int) float64 {
	return s.XDim.Min + (float64(c)+0.5)*s.XDim.Width()
}

// Y returns the centre of row r.
func (s *Slice) Y(r int) float64 {
	return s.YDim.Min + (float64(r)+0.5)*s.YDim.Width()
}

// ExtractSlice cuts the histogram along dimensions dimX and dimY. fixed
// gives the bin index of every dimension; entries for dimX and dimY are
// ignored. A nil fixed holds all other dimensions at bin 0.
func (v *Viewer) ExtractSlice(dimX, dimY int, fixed []int) (*Slice, error) {
	n := len(v.hist.Dims)
	if n < 2 {
		return nil, fmt.Errorf("histogram has %d dimension(s), slicing needs at least 2", n)
	}
	if dimX < 0 || dimX >= n || dimY < 0 || dimY >= n {
		return nil, fmt.Errorf("slice dimensions %d,%d out of range 0..%d", dimX, dimY, n-1)
	}
	if dimX == dimY {
		return nil, fmt.Errorf("slice dimensions must differ, got %d twice", dimX)
	}
	if fixed == nil {
		fixed = make([]int, n)
	}
	if len(fixed) != n {
		return nil, fmt.Errorf("expected %d fixed indices, got %d", n, len(fixed))
	}

	idx := append([]int(nil), fixed...)
	for d, i := range idx {
		if d == dimX || d == dimY {
			idx[d] = 0
			continue
		}
		if i < 0 || i >= v.hist.Dims[d].Bins {
			return nil, fmt.Errorf("index %d exceeds %d bins of dimension %d", i, v.hist.Dims[d].Bins, d)
		}
	}

	s := &Slice{
		XDim:   v.hist.Dims[dimX],
		YDim:   v.hist.Dims[dimY],
		Fixed:  idx,
		values: make([]float64, v.hist.Dims[dimX].Bins*v.hist.Dims[dimY].Bins),
	}
	cur := append([]int(nil), idx...)
	for r := 0; r < s.YDim.Bins; r++ {
		cur[dimY] = r
		for c := 0; c < s.XDim.Bins; c++ {
			cur[dimX] = c
			s.values[r*s.XDim.Bins+c] = v.hist.Signal[v.hist.Index(cur)]
		}
	}
	return s, nil
}

// SaveSlice renders a slice as a heat map. The format follows the file
// extension (png, svg, pdf...).
func (v *Viewer) SaveSlice(s *Slice, filename string) error {
	hm := plotter.NewHeatMap(s, palette.Heat(v.colors, 1))
	if !(hm.Max > hm.Min) {
		// flat slices still need a non-empty colour range
		hm.Max = hm.Min + 1
	}

	p := plot.New()
	p.Title.Text = sliceTitle(s)
	p.X.Label.Text = axisLabel(s.XDim)
	p.Y.Label.Text = axisLabel(s.YDim)
	p.Add(hm)

	return p.Save(6*vg.Inch, 5*vg.Inch, filename)
}

// SaveSliceSequence saves one slice per bin of the first dimension that is
// neither dimX nor dimY. Remaining dimensions are held at bin 0. It returns
// the written file names.
func (v *Viewer) SaveSliceSequence(dimX, dimY int, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	n := len(v.hist.Dims)
	step := -1
	for d := 0; d < n; d++ {
		if d != dimX && d != dimY {
			step = d
			break
		}
	}

	count := 1
	if step >= 0 {
		count = v.hist.Dims[step].Bins
	}

	files := make([]string, 0, count)
	for pos := 0; pos < count; pos++ {
		fixed := make([]int, n)
		if step >= 0 {
			fixed[step] = pos
		}
		s, err := v.ExtractSlice(dimX, dimY, fixed)
		if err != nil {
			return nil, err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%d_%d_%03d.png", dimX, dimY, pos))
		if err := v.SaveSlice(s, filename); err != nil {
			return nil, fmt.Errorf("error saving %s: %w", filename, err)
		}
		files = append(files, filename)
	}
	return files, nil
}

func axisLabel(d models.Dimension) string {
	if d.Unit == "" {
		return d.Name
	}
	return fmt.Sprintf("%s (%s)", d.Name, d.Unit)
}

func sliceTitle(s *Slice) string {
	return fmt.Sprintf("%s vs %s", s.YDim.Name, s.XDim.Name)
}
