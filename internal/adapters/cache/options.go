package cache

import "time"

// Option applies a configuration option to the Memo store.
type Option func(*Memo)

// WithCapacity bounds the number of live entries. Values below one are
// ignored.
func WithCapacity(n int) Option {
	return func(m *Memo) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// WithTTL sets how long entries stay valid. Non-positive values are
// ignored.
func WithTTL(ttl time.Duration) Option {
	return func(m *Memo) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock injects the time source, used by tests to control expiry.
func WithClock(clock func() time.Time) Option {
	return func(m *Memo) {
		if clock != nil {
			m.clock = clock
		}
	}
}
