package fov

import "fmt"

// Detector runs target detection on its own slower cadence and publishes the
// visible set through a snapshot.
type Detector struct {
	cfg      Config
	query    TargetQuery
	clock    Clock
	schedule *Periodic
	visible  Snapshot[Target]
}

// NewDetector validates cfg and schedules detection every cfg.DetectInterval.
// A nil clock means the system clock.
func NewDetector(cfg Config, query TargetQuery, clock Clock) (*Detector, error) {
	if query == nil {
		return nil, fmt.Errorf("nil target query: %w", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Detector{
		cfg:      cfg,
		query:    query,
		clock:    clock,
		schedule: NewPeriodic(cfg.DetectEvery()),
	}, nil
}

// Poll detects targets when the schedule is due. It reports whether a
// detection ran. A failed run publishes an empty set rather than keep stale
// targets.
func (d *Detector) Poll(pose Pose) (bool, error) {
	if !d.schedule.Due(d.clock.Now()) {
		return false, nil
	}
	found, err := DetectTargets(d.cfg, pose, d.query)
	if err != nil {
		d.visible.Store(nil)
		return true, err
	}
	d.visible.Store(found)
	return true, nil
}

// Visible returns the most recent published set of visible targets.
func (d *Detector) Visible() []Target {
	return d.visible.Load()
}

// Generation increments each time a detection publishes a new set.
func (d *Detector) Generation() uint64 {
	return d.visible.Generation()
}
