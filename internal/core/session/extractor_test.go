package session

import (
	"testing"

	"github.com/penwyp/go-deckview/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func ev(ts int64, kind model.EventKind) model.Event {
	return model.Event{Timestamp: ts, Kind: kind}
}

func TestExtract_StartStopPair(t *testing.T) {
	events := []model.Event{ev(100, model.KindStarted), ev(3700, model.KindStopped)}

	intervals := Extract(events, 0)

	assert.Equal(t, []model.Interval{{Start: 100, Stop: 3700}}, intervals)
}

func TestExtract_LeadingCloseUsesWindowStart(t *testing.T) {
	for _, kind := range []model.EventKind{model.KindStopped, model.KindSuspended} {
		t.Run(kind.String(), func(t *testing.T) {
			intervals := Extract([]model.Event{ev(500, kind)}, 200)
			assert.Equal(t, []model.Interval{{Start: 200, Stop: 500}}, intervals)
		})
	}
}

func TestExtract_RunningIsIgnored(t *testing.T) {
	base := []model.Event{
		ev(10, model.KindStarted),
		ev(20, model.KindStopped),
		ev(30, model.KindResumed),
		ev(40, model.KindSuspended),
	}
	expected := Extract(base, 0)

	for pos := 0; pos <= len(base); pos++ {
		withHeartbeat := make([]model.Event, 0, len(base)+1)
		withHeartbeat = append(withHeartbeat, base[:pos]...)
		withHeartbeat = append(withHeartbeat, ev(int64(pos*10+5), model.KindRunning))
		withHeartbeat = append(withHeartbeat, base[pos:]...)

		assert.Equal(t, expected, Extract(withHeartbeat, 0), "heartbeat at position %d", pos)
	}
}

func TestExtract_OnlyLatestOpenCounts(t *testing.T) {
	events := []model.Event{
		ev(100, model.KindStarted),
		ev(200, model.KindResumed),
		ev(300, model.KindStopped),
	}

	assert.Equal(t, []model.Interval{{Start: 200, Stop: 300}}, Extract(events, 0))
}

func TestExtract_CloseDoesNotMoveOpenBoundary(t *testing.T) {
	events := []model.Event{
		ev(100, model.KindStarted),
		ev(200, model.KindSuspended),
		ev(300, model.KindStopped),
	}

	assert.Equal(t, []model.Interval{
		{Start: 100, Stop: 200},
		{Start: 100, Stop: 300},
	}, Extract(events, 0))
}

func TestExtract_TrailingOpenIsDropped(t *testing.T) {
	events := []model.Event{
		ev(100, model.KindStarted),
		ev(200, model.KindStopped),
		ev(300, model.KindStarted),
		ev(350, model.KindRunning),
	}

	assert.Equal(t, []model.Interval{{Start: 100, Stop: 200}}, Extract(events, 0))
}

func TestExtract_EventAtWindowStart(t *testing.T) {
	events := []model.Event{ev(1000, model.KindStarted), ev(1500, model.KindStopped)}

	assert.Equal(t, []model.Interval{{Start: 1000, Stop: 1500}}, Extract(events, 1000))
}

func TestExtract_Empty(t *testing.T) {
	assert.Empty(t, Extract(nil, 0))
	assert.Empty(t, Extract([]model.Event{ev(5, model.KindRunning)}, 0))
}

func TestScan_ReportsOpenSession(t *testing.T) {
	res := Scan([]model.Event{
		ev(100, model.KindStarted),
		ev(200, model.KindStopped),
		ev(300, model.KindResumed),
	}, 0)

	assert.True(t, res.Open)
	assert.Equal(t, int64(300), res.OpenSince)
	assert.Len(t, res.Intervals, 1)
}

func TestScan_ClosedStreamIsNotOpen(t *testing.T) {
	res := Scan([]model.Event{ev(100, model.KindStarted), ev(200, model.KindStopped)}, 0)

	assert.False(t, res.Open)
	assert.Zero(t, res.OpenSince)
}

func TestResult_CloseOpen(t *testing.T) {
	res := Scan([]model.Event{
		ev(100, model.KindStarted),
		ev(200, model.KindStopped),
		ev(300, model.KindStarted),
	}, 0)

	closed := res.CloseOpen(900)

	assert.Equal(t, []model.Interval{{Start: 100, Stop: 200}, {Start: 300, Stop: 900}}, closed)
	assert.Len(t, res.Intervals, 1, "receiver must not be modified")
}

func TestResult_CloseOpenClampsToOpenBoundary(t *testing.T) {
	res := Scan([]model.Event{ev(300, model.KindStarted)}, 0)

	assert.Equal(t, []model.Interval{{Start: 300, Stop: 300}}, res.CloseOpen(100))
}

func TestResult_CloseOpenWithoutOpenSession(t *testing.T) {
	res := Scan([]model.Event{ev(100, model.KindStarted), ev(200, model.KindStopped)}, 0)

	assert.Equal(t, res.Intervals, res.CloseOpen(900))
}
