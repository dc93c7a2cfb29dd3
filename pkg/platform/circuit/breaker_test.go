package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock is a settable time source for cooldown tests.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestBreaker(opts ...Option) (*Breaker, *clock) {
	c := &clock{now: time.Unix(1_700_000_000, 0)}
	opts = append([]Option{WithCooldown(time.Minute), WithClock(c.Now)}, opts...)
	return New("directory", opts...), c
}

func TestNewBreakerIsClosed(t *testing.T) {
	b, _ := newTestBreaker()

	assert.Equal(t, "directory", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
	assert.True(t, b.Allow())
}

func TestOpening(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		outcomes  []bool // true = failure
		wantOpen  bool
	}{
		{name: "below threshold", threshold: 3, outcomes: []bool{true, true}, wantOpen: false},
		{name: "at threshold", threshold: 3, outcomes: []bool{true, true, true}, wantOpen: true},
		{name: "success in between resets the streak", threshold: 3, outcomes: []bool{true, true, false, true, true}, wantOpen: false},
		{name: "non-positive threshold keeps the default", threshold: 0, outcomes: []bool{true, true, true, true}, wantOpen: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBreaker(WithFailureThreshold(tt.threshold))
			for _, failed := range tt.outcomes {
				if failed {
					b.RecordFailure()
				} else {
					b.RecordSuccess()
				}
			}
			assert.Equal(t, tt.wantOpen, b.IsOpen())
		})
	}
}

func TestStateChangesAreReportedOnce(t *testing.T) {
	b, _ := newTestBreaker(WithFailureThreshold(1), WithSuccessThreshold(1))

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened, "already open")

	usePrimary, change := b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)

	_, change = b.RecordSuccess()
	assert.False(t, change.Closed, "already closed")
}

func TestCooldownProbe(t *testing.T) {
	b, c := newTestBreaker(WithFailureThreshold(2), WithSuccessThreshold(1))
	b.RecordFailure()
	b.RecordFailure()
	require.True(t, b.IsOpen())

	assert.False(t, b.Allow(), "calls fail fast during cooldown")
	c.Advance(59 * time.Second)
	assert.False(t, b.Allow())

	c.Advance(time.Second)
	assert.True(t, b.Allow(), "a probe goes through once the cooldown elapses")

	b.RecordSuccess()
	assert.False(t, b.IsOpen(), "one good probe closes with the directory settings")
	assert.True(t, b.Allow())
}

func TestFailedProbeRestartsCooldown(t *testing.T) {
	b, c := newTestBreaker(WithFailureThreshold(1))
	b.RecordFailure()

	c.Advance(time.Minute)
	require.True(t, b.Allow())
	b.RecordFailure()

	assert.False(t, b.Allow(), "cooldown counts from the failed probe")
	c.Advance(30 * time.Second)
	assert.False(t, b.Allow())
	c.Advance(30 * time.Second)
	assert.True(t, b.Allow())
}

func TestSuccessThresholdNeedsConsecutiveProbes(t *testing.T) {
	b, c := newTestBreaker(WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()
	c.Advance(time.Minute)

	usePrimary, _ := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.True(t, b.IsOpen())

	b.RecordFailure()
	c.Advance(time.Minute)
	b.RecordSuccess()
	assert.True(t, b.IsOpen(), "a failure between probes resets the success streak")

	b.RecordSuccess()
	assert.False(t, b.IsOpen())
}

func TestReset(t *testing.T) {
	b, _ := newTestBreaker(WithFailureThreshold(1))
	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}
