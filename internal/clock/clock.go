// Package clock abstracts time and deferred-callback scheduling so that
// debounce and cache behavior can be tested deterministically.
package clock

import "time"

// Clock supplies the current time. Implementations should return UTC.
type Clock interface {
	Now() time.Time
}

// Timer is a cancellable handle for a scheduled callback. Stop reports whether
// the callback was prevented from running.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after the given delay. The returned Timer may be
// stopped before expiry; after expiry Stop is a no-op.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
}
