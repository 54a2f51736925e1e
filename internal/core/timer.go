package core

import "time"

// FixedStep converts elapsed wall-clock time into a whole number of
// simulation ticks at a steady ticks-per-second rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	maxBurst    int
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
// The first call to Due reports one tick.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{maxBurst: 8, now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// SetMaxBurst caps how many ticks a single Due call may report, so a
// stalled frame does not trigger a long catch-up run.
func (f *FixedStep) SetMaxBurst(n int) {
	if n <= 0 {
		n = 1
	}
	f.maxBurst = n
}

// SetClock replaces the time source.
func (f *FixedStep) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	f.now = now
	f.last = time.Time{}
}

// Due returns how many ticks are owed since the previous call.
func (f *FixedStep) Due() int {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now

	n := 0
	for f.accumulator >= f.step && n < f.maxBurst {
		f.accumulator -= f.step
		n++
	}
	if n == f.maxBurst && f.accumulator >= f.step {
		f.accumulator = 0
	}
	return n
}

