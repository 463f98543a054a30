package statusline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/statuskit/lspstatus/internal/progress"
)

var testTheme = Theme{
	BusyIcon: "*",
	IdleIcon: "-",
	Ramp:     []string{"0", "1", "2"},
}

func TestIconSelection(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-", testTheme.Icon(progress.AggregateState{}))
	assert.Equal(t, "*", testTheme.Icon(progress.AggregateState{Busy: true}))
	assert.Equal(t, "0", testTheme.Icon(progress.AggregateState{Busy: true, Percentage: progress.Pct(0)}))
	assert.Equal(t, "1", testTheme.Icon(progress.AggregateState{Busy: true, Percentage: progress.Pct(50)}))
	assert.Equal(t, "2", testTheme.Icon(progress.AggregateState{Busy: true, Percentage: progress.Pct(100)}))
}

func TestIconWithoutRampFallsBackToBusy(t *testing.T) {
	t.Parallel()

	theme := Theme{BusyIcon: "*", IdleIcon: "-"}
	st := progress.AggregateState{Busy: true, Percentage: progress.Pct(40)}
	assert.Equal(t, "*", theme.Icon(st))
}

func TestRenderStateOrdersByName(t *testing.T) {
	t.Parallel()

	statuses := []WorkerStatus{
		{Name: "rust-analyzer", State: progress.AggregateState{Busy: true}},
		{Name: "gopls", State: progress.AggregateState{}},
	}
	assert.Equal(t, "- *", RenderState(statuses, testTheme))
}

func TestRenderStateTiesKeepInsertionOrder(t *testing.T) {
	t.Parallel()

	statuses := []WorkerStatus{
		{Name: "gopls", State: progress.AggregateState{Busy: true}},
		{Name: "gopls", State: progress.AggregateState{}},
	}
	assert.Equal(t, "* -", RenderState(statuses, testTheme))
}

func TestRenderProgressWithNames(t *testing.T) {
	t.Parallel()

	theme := testTheme
	theme.ShowName = true
	statuses := []WorkerStatus{
		{Name: "gopls", State: progress.AggregateState{Busy: true, Percentage: progress.Pct(30)}},
		{Name: "rust-analyzer", State: progress.AggregateState{Busy: true}},
	}
	assert.Equal(t, "gopls 1 30% rust-analyzer *", RenderProgress(statuses, theme))
}

func TestRenderProgressOmitsPercentWhenAbsent(t *testing.T) {
	t.Parallel()

	statuses := []WorkerStatus{
		{Name: "gopls", State: progress.AggregateState{Busy: true}},
	}
	assert.Equal(t, "*", RenderProgress(statuses, testTheme))
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", RenderState(nil, testTheme))
	assert.Equal(t, "", RenderProgress(nil, testTheme))
}
