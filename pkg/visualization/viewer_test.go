package visualization

import (
	"os"
	"path/filepath"
	"testing"

	"symbinmd/internal/models"
)

// testHistogram builds a 3D histogram whose signal encodes its bin indices.
func testHistogram(t *testing.T) *models.Histogram {
	t.Helper()
	h, err := models.NewHistogram([]models.Dimension{
		{Name: "a", Unit: "rlu", Min: -1, Max: 1, Bins: 4},
		{Name: "b", Unit: "rlu", Min: 0, Max: 3, Bins: 3},
		{Name: "E", Unit: "meV", Min: 0, Max: 10, Bins: 2},
	})
	if err != nil {
		t.Fatalf("Failed to create histogram: %v", err)
	}
	for e := 0; e < 2; e++ {
		for b := 0; b < 3; b++ {
			for a := 0; a < 4; a++ {
				h.Signal[h.Index([]int{a, b, e})] = float64(a + 10*b + 100*e)
			}
		}
	}
	return h
}

// TestExtractSlice verifies that slices pick the right bins
func TestExtractSlice(t *testing.T) {
	viewer := NewViewer(testHistogram(t))

	s, err := viewer.ExtractSlice(0, 1, []int{0, 0, 1})
	if err != nil {
		t.Fatalf("Failed to extract slice: %v", err)
	}
	c, r := s.Dims()
	if c != 4 || r != 3 {
		t.Errorf("Expected slice dimensions 4x3, got %dx%d", c, r)
	}
	if got := s.Z(2, 1); got != 112 {
		t.Errorf("Expected value 112 at (2,1), got %f", got)
	}
	if got := s.X(0); got != -0.75 {
		t.Errorf("Expected first column centre -0.75, got %f", got)
	}
	if got := s.Y(2); got != 2.5 {
		t.Errorf("Expected last row centre 2.5, got %f", got)
	}

	// Transposed slice along a and E
	s, err = viewer.ExtractSlice(2, 0, []int{0, 2, 0})
	if err != nil {
		t.Fatalf("Failed to extract slice: %v", err)
	}
	if got := s.Z(1, 3); got != 123 {
		t.Errorf("Expected value 123 at (1,3), got %f", got)
	}

	// Invalid requests
	if _, err := viewer.ExtractSlice(0, 0, nil); err == nil {
		t.Error("Expected error for identical dimensions, got nil")
	}
	if _, err := viewer.ExtractSlice(0, 3, nil); err == nil {
		t.Error("Expected error for out of range dimension, got nil")
	}
	if _, err := viewer.ExtractSlice(0, 1, []int{0, 0, 2}); err == nil {
		t.Error("Expected error for out of bounds fixed index, got nil")
	}
	if _, err := viewer.ExtractSlice(0, 1, []int{0}); err == nil {
		t.Error("Expected error for short fixed indices, got nil")
	}
}

// TestSaveSlice verifies that slices can be saved to disk
func TestSaveSlice(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	h, err := models.NewHistogram([]models.Dimension{
		{Name: "a", Min: 0, Max: 1, Bins: 5},
		{Name: "b", Min: 0, Max: 1, Bins: 5},
	})
	if err != nil {
		t.Fatalf("Failed to create histogram: %v", err)
	}
	viewer := NewViewer(h)

	// An empty histogram is a flat slice
	s, err := viewer.ExtractSlice(0, 1, nil)
	if err != nil {
		t.Fatalf("Failed to extract slice: %v", err)
	}

	filename := filepath.Join(t.TempDir(), "flat.png")
	if err := viewer.SaveSlice(s, filename); err != nil {
		t.Fatalf("Failed to save slice: %v", err)
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		t.Errorf("Saved file does not exist: %s", filename)
	}
}

// TestSaveSliceSequence verifies that a sequence of slices can be saved
func TestSaveSliceSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	viewer := NewViewer(testHistogram(t))
	outputDir := filepath.Join(t.TempDir(), "slices")

	files, err := viewer.SaveSliceSequence(0, 1, outputDir)
	if err != nil {
		t.Fatalf("Failed to save slice sequence: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 slices along E, got %d", len(files))
	}
	for _, filename := range files {
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			t.Errorf("Expected slice file does not exist: %s", filename)
		}
	}

	if _, err := viewer.SaveSliceSequence(0, 0, outputDir); err == nil {
		t.Error("Expected error for identical dimensions, got nil")
	}
}
