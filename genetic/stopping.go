package genetic

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TimeUnit scales a FixedElapsedTime amount
type TimeUnit int

const (
	Nanoseconds TimeUnit = iota
	Microseconds
	Milliseconds
	Seconds
	Minutes
	Hours
	Days
)

var timeUnitNames = [...]string{
	Nanoseconds:  "nanoseconds",
	Microseconds: "microseconds",
	Milliseconds: "milliseconds",
	Seconds:      "seconds",
	Minutes:      "minutes",
	Hours:        "hours",
	Days:         "days",
}

var timeUnitScale = [...]time.Duration{
	Nanoseconds:  time.Nanosecond,
	Microseconds: time.Microsecond,
	Milliseconds: time.Millisecond,
	Seconds:      time.Second,
	Minutes:      time.Minute,
	Hours:        time.Hour,
	Days:         24 * time.Hour,
}

func (u TimeUnit) valid() bool {
	return u >= Nanoseconds && u <= Days
}

func (u TimeUnit) String() string {
	if !u.valid() {
		return fmt.Sprintf("TimeUnit(%d)", int(u))
	}
	return timeUnitNames[u]
}

// Duration converts amount of u to a time.Duration, saturating at the int64 range
func (u TimeUnit) Duration(amount int64) (time.Duration, error) {
	if !u.valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTimeUnit, int(u))
	}
	if amount < 0 {
		return 0, fmt.Errorf("%w: %d %s", ErrInvalidDuration, amount, u)
	}
	scale := int64(timeUnitScale[u])
	if amount > math.MaxInt64/scale {
		return time.Duration(math.MaxInt64), nil
	}
	return time.Duration(amount * scale), nil
}

// ParseTimeUnit accepts the unit names, case-insensitive, with or without a trailing "s"
func ParseTimeUnit(s string) (TimeUnit, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasSuffix(name, "s") {
		name += "s"
	}
	for u, n := range timeUnitNames {
		if n == name {
			return TimeUnit(u), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeUnit, s)
}

// --- Stopping Conditions ---

// FixedElapsedTime stops evolution once a wall-clock budget is spent
// The deadline is captured on the first IsSatisfied call, not at construction
type FixedElapsedTime struct {
	budget   time.Duration
	deadline time.Time
	started  bool
	now      func() time.Time
}

// ElapsedTimeOption configures a FixedElapsedTime
type ElapsedTimeOption func(*FixedElapsedTime)

// WithClock replaces time.Now, for simulated time
func WithClock(now func() time.Time) ElapsedTimeOption {
	return func(f *FixedElapsedTime) {
		f.now = now
	}
}

// NewFixedElapsedTime creates a condition with a budget of amount units
func NewFixedElapsedTime(amount int64, unit TimeUnit, opts ...ElapsedTimeOption) (*FixedElapsedTime, error) {
	budget, err := unit.Duration(amount)
	if err != nil {
		return nil, err
	}
	f := &FixedElapsedTime{
		budget: budget,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Budget returns the configured duration
func (f *FixedElapsedTime) Budget() time.Duration {
	return f.budget
}

func (f *FixedElapsedTime) IsSatisfied(_ *Population) bool {
	now := f.now()
	if !f.started {
		f.started = true
		f.deadline = now.Add(f.budget)
		// Saturate when the budget overflows the clock
		if f.deadline.Before(now) {
			f.deadline = time.Unix(1<<62, 0)
		}
	}
	return !now.Before(f.deadline)
}

// FixedGenerationCount stops after a fixed number of generations
// Each IsSatisfied call counts as one evolved generation
type FixedGenerationCount struct {
	max     int
	checked int
}

// NewFixedGenerationCount creates a condition satisfied on the n-th check
func NewFixedGenerationCount(n int) (*FixedGenerationCount, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGenerationCount, n)
	}
	return &FixedGenerationCount{max: n}, nil
}

func (g *FixedGenerationCount) IsSatisfied(_ *Population) bool {
	if g.checked < g.max {
		g.checked++
	}
	return g.checked >= g.max
}

// Generations returns the number of checks seen so far
func (g *FixedGenerationCount) Generations() int {
	return g.checked
}

// FitnessStagnation stops once the best fitness has not improved for Limit consecutive checks
type FitnessStagnation struct {
	limit    int
	best     float64
	seen     bool
	stagnant int
}

// NewFitnessStagnation creates a plateau detector
func NewFitnessStagnation(limit int) (*FitnessStagnation, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: stagnation limit %d", ErrInvalidGenerationCount, limit)
	}
	return &FitnessStagnation{limit: limit}, nil
}

func (s *FitnessStagnation) IsSatisfied(pop *Population) bool {
	fittest, err := pop.Fittest()
	if err != nil {
		return false
	}
	f := fittest.Fitness()

	switch {
	case !s.seen:
		s.seen = true
		s.best = f
	case f > s.best:
		s.best = f
		s.stagnant = 0
	default:
		s.stagnant++
	}
	return s.stagnant >= s.limit
}

// anyOf is satisfied when at least one condition is
type anyOf []StoppingCondition

// AnyOf combines conditions; every condition is checked on each call so stateful ones advance together
func AnyOf(conditions ...StoppingCondition) StoppingCondition {
	return anyOf(conditions)
}

func (a anyOf) IsSatisfied(pop *Population) bool {
	satisfied := false
	for _, c := range a {
		if c.IsSatisfied(pop) {
			satisfied = true
		}
	}
	return satisfied
}
