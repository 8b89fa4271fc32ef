package models

// Event is a single measured point in reciprocal space and energy transfer.
type Event struct {
	// Coords holds h, k, l and the energy transfer, in that order
	Coords [4]float64

	// Signal is the weight carried by the event
	Signal float64

	// ErrorSq is the squared uncertainty of Signal
	ErrorSq float64
}

// EventTable is the input data set consumed by the binning service.
type EventTable struct {
	// Events in acquisition order
	Events []Event

	// Names and Units label the four input dimensions
	Names [4]string
	Units [4]string
}

// NewEventTable returns an empty table with the usual h,k,l,E labels.
func NewEventTable() *EventTable {
	return &EventTable{
		Names: [4]string{"[H,0,0]", "[0,K,0]", "[0,0,L]", "DeltaE"},
		Units: [4]string{"r.l.u.", "r.l.u.", "r.l.u.", "meV"},
	}
}

// Len returns the number of events in the table.
func (t *EventTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Events)
}
