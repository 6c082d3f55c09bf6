package genetic

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is advanced manually by the test
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestFixedElapsedTime_ZeroBudget(t *testing.T) {
	cond, err := NewFixedElapsedTime(0, Seconds)
	require.NoError(t, err)
	assert.True(t, cond.IsSatisfied(nil), "a zero budget is satisfied on the first check")
}

func TestFixedElapsedTime_SimulatedClock(t *testing.T) {
	clock := newFakeClock()
	cond, err := NewFixedElapsedTime(3, Seconds, WithClock(clock.Now))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cond.Budget())

	// Time passing before the first check does not count
	clock.Advance(time.Hour)
	assert.False(t, cond.IsSatisfied(nil))

	clock.Advance(2 * time.Second)
	assert.False(t, cond.IsSatisfied(nil))

	clock.Advance(time.Second)
	assert.True(t, cond.IsSatisfied(nil))

	clock.Advance(time.Minute)
	assert.True(t, cond.IsSatisfied(nil), "stays satisfied once the deadline passed")
}

func TestFixedElapsedTime_Invalid(t *testing.T) {
	_, err := NewFixedElapsedTime(-1, Milliseconds)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = NewFixedElapsedTime(1, TimeUnit(42))
	assert.ErrorIs(t, err, ErrInvalidTimeUnit)
}

func TestFixedElapsedTime_SaturatingBudget(t *testing.T) {
	clock := newFakeClock()
	cond, err := NewFixedElapsedTime(math.MaxInt64, Days, WithClock(clock.Now))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(math.MaxInt64), cond.Budget())

	assert.False(t, cond.IsSatisfied(nil))
	clock.Advance(100 * 365 * 24 * time.Hour)
	assert.False(t, cond.IsSatisfied(nil))
}

func TestTimeUnit_Duration(t *testing.T) {
	tests := []struct {
		unit   TimeUnit
		amount int64
		want   time.Duration
	}{
		{Nanoseconds, 5, 5 * time.Nanosecond},
		{Microseconds, 5, 5 * time.Microsecond},
		{Milliseconds, 5, 5 * time.Millisecond},
		{Seconds, 5, 5 * time.Second},
		{Minutes, 5, 5 * time.Minute},
		{Hours, 5, 5 * time.Hour},
		{Days, 2, 48 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.unit.String(), func(t *testing.T) {
			got, err := tt.unit.Duration(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeUnit(t *testing.T) {
	for in, want := range map[string]TimeUnit{
		"seconds":      Seconds,
		"second":       Seconds,
		"  Minutes ":   Minutes,
		"DAY":          Days,
		"milliseconds": Milliseconds,
		"nanosecond":   Nanoseconds,
	} {
		got, err := ParseTimeUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTimeUnit("weeks")
	assert.ErrorIs(t, err, ErrInvalidTimeUnit)
	_, err = ParseTimeUnit("")
	assert.ErrorIs(t, err, ErrInvalidTimeUnit)

	assert.Equal(t, "TimeUnit(9)", TimeUnit(9).String())
}

func TestFixedGenerationCount(t *testing.T) {
	_, err := NewFixedGenerationCount(0)
	assert.ErrorIs(t, err, ErrInvalidGenerationCount)

	cond, err := NewFixedGenerationCount(3)
	require.NoError(t, err)
	assert.False(t, cond.IsSatisfied(nil))
	assert.False(t, cond.IsSatisfied(nil))
	assert.True(t, cond.IsSatisfied(nil))
	assert.True(t, cond.IsSatisfied(nil))
	assert.Equal(t, 3, cond.Generations())
}

func TestFitnessStagnation(t *testing.T) {
	_, err := NewFitnessStagnation(0)
	assert.ErrorIs(t, err, ErrInvalidGenerationCount)

	cond, err := NewFitnessStagnation(2)
	require.NoError(t, err)

	low := scoredPopulation(t, 1)
	high := scoredPopulation(t, 5)

	assert.False(t, cond.IsSatisfied(low))
	assert.False(t, cond.IsSatisfied(low))
	assert.False(t, cond.IsSatisfied(high), "improvement resets the plateau")
	assert.False(t, cond.IsSatisfied(high))
	assert.True(t, cond.IsSatisfied(low))

	empty, err := NewPopulation(1)
	require.NoError(t, err)
	fresh, err := NewFitnessStagnation(1)
	require.NoError(t, err)
	assert.False(t, fresh.IsSatisfied(empty))
}

func TestAnyOf_AdvancesAll(t *testing.T) {
	short, err := NewFixedGenerationCount(2)
	require.NoError(t, err)
	long, err := NewFixedGenerationCount(5)
	require.NoError(t, err)

	cond := AnyOf(long, short)
	assert.False(t, cond.IsSatisfied(nil))
	assert.True(t, cond.IsSatisfied(nil))
	assert.Equal(t, 2, long.Generations(), "every condition is checked")

	assert.False(t, AnyOf().IsSatisfied(nil))
}
