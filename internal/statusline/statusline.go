// Package statusline renders aggregate progress states into the compact
// strings an editor statusline displays. Rendering is pure formatting over
// already-derived state.
package statusline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/statuskit/lspstatus/internal/progress"
)

// Theme controls statusline formatting.
type Theme struct {
	// ShowName prefixes each segment with the worker name.
	ShowName bool
	// BusyIcon marks a busy worker with indeterminate progress.
	BusyIcon string
	// IdleIcon marks a worker with no active streams.
	IdleIcon string
	// Ramp is the ordered icon sequence percentages map onto.
	Ramp []string
}

// WorkerStatus pairs a worker's display name with its representative state.
type WorkerStatus struct {
	Name  string
	State progress.AggregateState
}

// Icon picks the theme icon for one aggregate state: the idle icon when not
// busy, the ramp icon for a defined percentage, and the busy icon otherwise
// (including when no ramp is configured).
func (t Theme) Icon(st progress.AggregateState) string {
	if !st.Busy {
		return t.IdleIcon
	}
	if st.Percentage == nil || len(t.Ramp) == 0 {
		return t.BusyIcon
	}
	return t.Ramp[progress.RampIndex(*st.Percentage, len(t.Ramp))]
}

// RenderState formats one icon per worker, space-joined. Workers are ordered
// by name ascending; ties keep the caller's insertion order.
func RenderState(statuses []WorkerStatus, theme Theme) string {
	ordered := orderByName(statuses)
	icons := make([]string, 0, len(ordered))
	for _, ws := range ordered {
		icons = append(icons, theme.Icon(ws.State))
	}
	return strings.Join(icons, " ")
}

// RenderProgress formats one segment per worker, optionally name-prefixed and
// carrying the percentage when the worker reports one. Ordering matches
// RenderState.
func RenderProgress(statuses []WorkerStatus, theme Theme) string {
	ordered := orderByName(statuses)
	segments := make([]string, 0, len(ordered))
	for _, ws := range ordered {
		segments = append(segments, renderSegment(ws, theme))
	}
	return strings.Join(segments, " ")
}

func renderSegment(ws WorkerStatus, theme Theme) string {
	var b strings.Builder
	if theme.ShowName && ws.Name != "" {
		b.WriteString(ws.Name)
		b.WriteString(" ")
	}
	b.WriteString(theme.Icon(ws.State))
	if ws.State.Busy && ws.State.Percentage != nil {
		fmt.Fprintf(&b, " %d%%", *ws.State.Percentage)
	}
	return b.String()
}

func orderByName(statuses []WorkerStatus) []WorkerStatus {
	ordered := append([]WorkerStatus(nil), statuses...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Name < ordered[j].Name
	})
	return ordered
}
