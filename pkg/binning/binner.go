package binning

import (
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"gonum.org/v1/gonum/floats"

	"symbinmd/internal/models"
	"symbinmd/pkg/basis"
)

// EventBinner bins an in-memory event table.
type EventBinner struct {
	events   *models.EventTable
	numCores int
}

var _ Binner = (*EventBinner)(nil)

// NewEventBinner creates a binner over events using numCores workers. A
// non-positive numCores uses every available CPU.
func NewEventBinner(events *models.EventTable, numCores int) *EventBinner {
	if numCores < 1 {
		numCores = runtime.NumCPU()
	}
	return &EventBinner{events: events, numCores: numCores}
}

// projection is one output axis: a 4-vector over (h,k,l,E).
type projection struct {
	axis [4]float64
}

// Bin histograms the events along the request's present basis vectors.
// Output dimension d uses the d-th present vector and extents/bins entry d.
func (b *EventBinner) Bin(req Request) (*models.Histogram, error) {
	if b.events == nil {
		return nil, fmt.Errorf("%w: no input events", models.ErrBinning)
	}

	projections, dims, err := b.layout(req)
	if err != nil {
		return nil, err
	}

	template, err := models.NewHistogram(dims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrBinning, err)
	}

	events := b.events.Events
	numWorkers := b.numCores
	if numWorkers > len(events) {
		numWorkers = len(events)
	}
	if numWorkers < 1 {
		return template, nil
	}

	// Each worker fills a private histogram; partials are merged in worker
	// order so results only depend on the worker count.
	chunk := (len(events) + numWorkers - 1) / numWorkers
	partials := make([]*models.Histogram, numWorkers)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(events) {
			end = len(events)
		}
		partials[w] = template.Clone()
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(h *models.Histogram, events []models.Event) {
			defer wg.Done()
			fill(h, events, projections, req.Translation)
		}(partials[w], events[start:end])
	}
	wg.Wait()

	result := partials[0]
	for _, p := range partials[1:] {
		if err := result.Add(p); err != nil {
			return nil, fmt.Errorf("%w: merging partial histograms: %v", models.ErrBinning, err)
		}
	}
	return result, nil
}

// layout builds the projection axes and output dimensions of a request.
func (b *EventBinner) layout(req Request) ([]projection, []models.Dimension, error) {
	projections := make([]projection, 0, basis.NumSlots)
	dims := make([]models.Dimension, 0, basis.NumSlots)

	for d, slot := range req.Basis.Indices() {
		v, _ := req.Basis[slot].Get()

		fourth, err := strconv.ParseFloat(v.Fourth, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: basis vector %d: fourth component %q is not a number",
				models.ErrBinning, slot, v.Fourth)
		}
		axis := []float64{v.Direction[0], v.Direction[1], v.Direction[2], fourth}

		norm := floats.Norm(axis, 2)
		if norm == 0 {
			return nil, nil, fmt.Errorf("%w: basis vector %d has zero length", models.ErrBinning, slot)
		}
		if req.Normalize {
			floats.Scale(1/norm, axis)
		}

		var p projection
		copy(p.axis[:], axis)
		projections = append(projections, p)

		dims = append(dims, models.Dimension{
			Name: v.Name,
			Unit: v.Unit,
			Min:  req.Extents[2*d],
			Max:  req.Extents[2*d+1],
			Bins: req.Bins[d],
		})
	}

	if len(dims) == 0 {
		return nil, nil, fmt.Errorf("%w: request has no basis vectors", models.ErrBinning)
	}
	return projections, dims, nil
}

// fill projects events onto the axes and adds them to h.
func fill(h *models.Histogram, events []models.Event, projections []projection, translation [4]float64) {
	idx := make([]int, len(projections))
	shifted := make([]float64, 4)

	for _, e := range events {
		for k := range shifted {
			shifted[k] = e.Coords[k] - translation[k]
		}

		inside := true
		for d, p := range projections {
			coord := floats.Dot(p.axis[:], shifted)
			i, ok := h.Dims[d].BinIndex(coord)
			if !ok {
				inside = false
				break
			}
			idx[d] = i
		}
		if !inside {
			continue
		}

		off := h.Index(idx)
		h.Signal[off] += e.Signal
		h.ErrorSq[off] += e.ErrorSq
		h.NumEvents[off]++
	}
}
