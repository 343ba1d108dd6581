package capture

import (
	"math/rand"
	"time"
)

// Backoff bounds how fast a capture retries a failing source
type Backoff struct {
	Min       time.Duration
	Max       time.Duration
	JitterPct int
}

// DefaultBackoff keeps looping files smooth while not hammering a dead camera
func DefaultBackoff() Backoff {
	return Backoff{
		Min:       100 * time.Millisecond,
		Max:       30 * time.Second,
		JitterPct: 20,
	}
}

// withDefaults fills unset or inverted bounds from DefaultBackoff. A zero
// Backoff becomes DefaultBackoff, jitter included.
func (b Backoff) withDefaults() Backoff {
	def := DefaultBackoff()
	if b == (Backoff{}) {
		return def
	}
	if b.Min <= 0 {
		b.Min = def.Min
	}
	if b.Max <= 0 {
		b.Max = max(def.Max, b.Min)
	}
	if b.Max < b.Min {
		b.Max = b.Min
	}
	return b
}

// Delay calculates jittered exponential backoff delay for the given attempt (1-based)
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	// Base delay with exponential backoff; stop doubling once past Max
	baseDelay := b.Min
	for i := 1; i < attempt && baseDelay > 0 && baseDelay < b.Max; i++ {
		baseDelay *= 2
	}

	// Clamp to configured min/max
	if baseDelay < b.Min {
		baseDelay = b.Min
	}
	if baseDelay > b.Max {
		baseDelay = b.Max
	}

	if b.JitterPct <= 0 {
		return baseDelay
	}

	// Add jitter (random percentage of the delay)
	jitterPct := float64(b.JitterPct) / 100.0
	jitter := time.Duration(float64(baseDelay) * jitterPct * (rand.Float64()*2 - 1))

	return baseDelay + jitter
}
