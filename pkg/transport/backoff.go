package transport

import "time"

// Backoff doubles a delay from Base up to Max.
type Backoff struct {
	Base    time.Duration
	Max     time.Duration
	attempt int
}

// NewBackoff creates a backoff starting at base.
func NewBackoff(base, max time.Duration) *Backoff {
	return &Backoff{Base: base, Max: max}
}

// Next returns the delay to wait before the next attempt.
func (b *Backoff) Next() time.Duration {
	d := b.Base << b.attempt
	if d > b.Max || d <= 0 {
		d = b.Max
	} else {
		b.attempt++
	}
	return d
}

// Reset starts over from Base, typically after a successful connect.
func (b *Backoff) Reset() {
	b.attempt = 0
}
