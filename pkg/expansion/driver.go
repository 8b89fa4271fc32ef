package expansion

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"symbinmd/internal/logging"
	"symbinmd/internal/models"
	"symbinmd/pkg/basis"
	"symbinmd/pkg/binning"
	"symbinmd/pkg/symmetry"
)

// State is a step of the driver's state machine.
type State int

const (
	StateInit State = iota
	StateFirstBin
	StateExpanding
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateFirstBin:
		return "first-bin"
	case StateExpanding:
		return "expanding"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Report describes what a run did, or would do when produced by Plan.
type Report struct {
	RunID uuid.UUID
	Mode  Mode

	// Space-group mode only
	SpaceGroup       int
	SpaceGroupSymbol string
	LatticeFamily    symmetry.LatticeFamily
	GroupOrder       int

	// Operations applied in explicit mode, in order
	Operations []symmetry.Op

	// Identity is the first, unsymmetrised pass
	Identity binning.Request

	// Expansion holds one request per accumulated pass, in order
	Expansion []binning.Request
}

// Passes returns the total number of binning calls, identity included.
func (r *Report) Passes() int {
	return 1 + len(r.Expansion)
}

// Driver runs one symmetrised binning invocation.
type Driver struct {
	params *Params
	binner binning.Binner
	db     symmetry.Database
	log    logrus.FieldLogger
	state  State
}

// NewDriver creates a driver. db may be nil when only explicit operations
// are used.
func NewDriver(params *Params, binner binning.Binner, db symmetry.Database, log logrus.FieldLogger) *Driver {
	if log == nil {
		log = logging.Discard()
	}
	return &Driver{
		params: params,
		binner: binner,
		db:     db,
		log:    log,
		state:  StateInit,
	}
}

// State returns the current state.
func (d *Driver) State() State {
	return d.state
}

// Plan validates the configuration and returns every binning request of
// the run in order, without binning anything.
func (d *Driver) Plan() (*Report, error) {
	d.state = StateInit
	report, err := d.initialize(uuid.New())
	if err != nil {
		d.state = StateFailed
		return nil, err
	}
	return report, nil
}

// Run executes the full state machine and returns the accumulated
// histogram. On any error no histogram is returned.
func (d *Driver) Run() (*models.Histogram, *Report, error) {
	runID := uuid.New()
	log := d.log.WithField("run_id", runID.String())

	// Init
	d.state = StateInit
	log.WithField("state", d.state).Info("Validating configuration")
	report, err := d.initialize(runID)
	if err != nil {
		return d.fail(log, err)
	}
	fields := logrus.Fields{
		"mode":   report.Mode.String(),
		"passes": report.Passes(),
	}
	if report.Mode == SpaceGroupMode {
		fields["space_group"] = report.SpaceGroupSymbol
		fields["group_order"] = report.GroupOrder
	}
	log.WithFields(fields).Info("Configuration accepted")

	// FirstBin
	d.state = StateFirstBin
	log.WithField("state", d.state).Debugf("Binning identity orientation: %s", report.Identity)
	acc, err := d.bin(report.Identity)
	if err != nil {
		return d.fail(log, fmt.Errorf("identity pass: %w", asBinningFailure(err)))
	}

	// Expanding
	d.state = StateExpanding
	for i, req := range report.Expansion {
		entry := log.WithFields(logrus.Fields{
			"state": d.state,
			"pass":  i + 1,
		})
		if i < len(report.Operations) {
			entry = entry.WithField("operation", report.Operations[i].String())
		}
		entry.Debugf("Binning symmetry-equivalent orientation: %s", req)

		h, err := d.bin(req)
		if err != nil {
			return d.fail(log, fmt.Errorf("pass %d: %w", i+1, asBinningFailure(err)))
		}
		if err := acc.Add(h); err != nil {
			return d.fail(log, fmt.Errorf("pass %d: %w", i+1, asBinningFailure(err)))
		}
	}

	// Done
	d.state = StateDone
	log.WithFields(logrus.Fields{
		"state":  d.state,
		"passes": report.Passes(),
	}).Info("Symmetrised histogram complete")
	return acc, report, nil
}

func (d *Driver) bin(req binning.Request) (*models.Histogram, error) {
	h, err := d.binner.Bin(req)
	if err == nil && h == nil {
		err = fmt.Errorf("%w: binning service returned no histogram", models.ErrBinning)
	}
	return h, err
}

func (d *Driver) fail(log logrus.FieldLogger, err error) (*models.Histogram, *Report, error) {
	log.WithField("state", d.state).WithError(err).Error("Symmetrisation failed")
	d.state = StateFailed
	return nil, nil, err
}

// initialize validates the parameters and builds every request.
func (d *Driver) initialize(runID uuid.UUID) (*Report, error) {
	p := d.params
	if p == nil {
		return nil, fmt.Errorf("%w: no parameters", models.ErrConfiguration)
	}
	if d.binner == nil {
		return nil, fmt.Errorf("%w: no binning service", models.ErrConfiguration)
	}

	report := &Report{RunID: runID, Mode: p.Mode}

	// Mode-specific bounds are checked before any string is parsed.
	var ops []symmetry.Op
	switch p.Mode {
	case SpaceGroupMode:
		if p.SpaceGroup < MinSpaceGroup || p.SpaceGroup > MaxSpaceGroup {
			return nil, fmt.Errorf("%w: space group number %d outside %d..%d",
				models.ErrConfiguration, p.SpaceGroup, MinSpaceGroup, MaxSpaceGroup)
		}
		if d.db == nil {
			return nil, fmt.Errorf("%w: space-group mode needs a symmetry database", models.ErrConfiguration)
		}
	case ExplicitOpsMode:
		var err error
		if ops, err = parseOperations(p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown mode %v", models.ErrConfiguration, p.Mode)
	}

	first, err := identityRequest(p)
	if err != nil {
		return nil, err
	}
	report.Identity = first

	switch p.Mode {
	case SpaceGroupMode:
		err = d.expandBySpaceGroup(report)
	case ExplicitOpsMode:
		report.Operations = ops
		report.Expansion = expandByOperations(first, ops)
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// identityRequest assembles the unsymmetrised pass, applying the
// axis-aligned conversion when selected.
func identityRequest(p *Params) (binning.Request, error) {
	req := binning.Request{
		Normalize:   p.Normalize,
		Translation: p.Translation,
		Extents:     p.Extents,
		Bins:        p.Bins,
		// binning always runs on the converted, non-aligned form
		AxisAligned: false,
	}

	if p.AxisAligned {
		set, extents, bins, err := basis.AlignedBinning(p.AlignedDims)
		if err != nil {
			return binning.Request{}, err
		}
		req.Basis = set
		req.Translation = [4]float64{}
		req.Extents = extents
		req.Bins = bins
		return req, nil
	}

	set, err := basis.ParseSet(p.BasisVectors)
	if err != nil {
		return binning.Request{}, err
	}
	req.Basis = set
	return req, nil
}

// parseOperations validates the operation count and every configured
// operation string against the catalog.
func parseOperations(p *Params) ([]symmetry.Op, error) {
	if p.NumOperations < 1 || p.NumOperations > MaxOperations {
		return nil, fmt.Errorf("%w: number of symmetry operations %d outside 1..%d",
			models.ErrConfiguration, p.NumOperations, MaxOperations)
	}

	ops := make([]symmetry.Op, 0, p.NumOperations)
	for i, s := range p.Operations {
		used := i < p.NumOperations
		if s == "" {
			if used {
				return nil, fmt.Errorf("%w: symmetry operation %d is not set", models.ErrConfiguration, i+1)
			}
			continue
		}
		op, err := symmetry.ParseOp(s)
		if err != nil {
			return nil, fmt.Errorf("symmetry operation %d: %w", i+1, err)
		}
		if used {
			ops = append(ops, op)
		}
	}
	return ops, nil
}

// expandBySpaceGroup fills report with one request per distinct orientation
// of the whole basis set under the point group.
func (d *Driver) expandBySpaceGroup(report *Report) error {
	number := d.params.SpaceGroup

	symbol, err := d.db.SpaceGroupSymbol(number)
	if err != nil {
		return fmt.Errorf("space group %d: %w", number, asLookupFailure(err))
	}
	ops, err := d.db.PointGroupOperations(symbol)
	if err != nil {
		return fmt.Errorf("space group %s: %w", symbol, asLookupFailure(err))
	}
	if len(ops) == 0 {
		return fmt.Errorf("%w: space group %s has no point-group operations", models.ErrSymmetryLookup, symbol)
	}
	canonical, err := d.db.SpaceGroupNumber(symbol)
	if err != nil {
		return fmt.Errorf("space group %s: %w", symbol, asLookupFailure(err))
	}
	frame := symmetry.FrameForSpaceGroup(canonical)

	orbits := symmetry.SetOrbits(report.Identity.Basis, ops, frame)
	tuples, err := orbits.Tuples()
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrSymmetryLookup, err)
	}
	unique := symmetry.UniqueTuples(tuples)

	report.SpaceGroup = canonical
	report.SpaceGroupSymbol = symbol
	report.LatticeFamily = frame.Family()
	report.GroupOrder = len(ops)
	report.Expansion = make([]binning.Request, len(unique))
	for i, t := range unique {
		req := report.Identity
		req.Basis = report.Identity.Basis.WithDirections(t.Directions())
		report.Expansion[i] = req
	}
	return nil
}

// expandByOperations builds one request per operation. Operations act
// directly on the given directions; no frame transform and no
// deduplication are applied.
func expandByOperations(first binning.Request, ops []symmetry.Op) []binning.Request {
	requests := make([]binning.Request, len(ops))
	for i, op := range ops {
		var dirs [basis.NumSlots][3]float64
		for slot, s := range first.Basis {
			if v, ok := s.Get(); ok {
				dirs[slot] = op.Apply(v.Direction)
			}
		}
		req := first
		req.Basis = first.Basis.WithDirections(dirs)
		requests[i] = req
	}
	return requests
}

func asBinningFailure(err error) error {
	if errors.Is(err, models.ErrBinning) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrBinning, err)
}

func asLookupFailure(err error) error {
	if errors.Is(err, models.ErrSymmetryLookup) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrSymmetryLookup, err)
}
