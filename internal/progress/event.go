package progress

import (
	"errors"
	"fmt"
	"time"
)

// Kind denotes the lifecycle meaning of a progress Event.
type Kind string

// Supported event kinds. Wire values outside the begin/report/end set parse
// to KindOther, which the store treats exactly like KindEnd.
const (
	KindBegin  Kind = "begin"
	KindReport Kind = "report"
	KindEnd    Kind = "end"
	KindOther  Kind = "other"
)

// ParseKind maps a wire string onto the closed Kind set. Unknown strings
// degrade to KindOther so a misbehaving worker can never leave a stream
// permanently busy.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindBegin, KindReport, KindEnd:
		return Kind(s)
	default:
		return KindOther
	}
}

// Event captures a single progress notification from a worker.
type Event struct {
	// Worker identifies the emitting language server.
	Worker string
	// Token scopes one logical progress stream within the worker.
	Token string
	// Kind denotes begin/report/end/other.
	Kind Kind
	// Percentage optionally carries completion in [0,100]. Nil means the
	// stream reports indeterminate progress.
	Percentage *int
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.Worker == "" {
		return errors.New("worker is required")
	}
	if e.Token == "" {
		return errors.New("token is required")
	}
	switch e.Kind {
	case KindBegin, KindReport, KindEnd, KindOther:
	default:
		return fmt.Errorf("unknown kind %q", e.Kind)
	}
	if e.Percentage != nil && (*e.Percentage < 0 || *e.Percentage > 100) {
		return fmt.Errorf("percentage %d out of range", *e.Percentage)
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	return nil
}

// Pct is a convenience constructor for optional percentages.
func Pct(v int) *int {
	return &v
}
