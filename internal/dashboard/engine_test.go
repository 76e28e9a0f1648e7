package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/channel"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/logger"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/restclient"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type harness struct {
	engine  *Engine
	ch      *fakeChannel
	src     *fakeSource
	metrics *Metrics
	cancel  context.CancelFunc
	errc    chan error
}

func startEngine(t *testing.T, src *fakeSource, opts Options) *harness {
	t.Helper()
	h := startEngineWith(t, src, opts)
	h.src = src
	return h
}

func startEngineWith(t *testing.T, src Source, opts Options) *harness {
	t.Helper()
	return startEngineLogged(t, src, opts, logger.Nop())
}

func startEngineLogged(t *testing.T, src Source, opts Options, log *logger.Logger) *harness {
	t.Helper()
	if opts.SubjectID == "" {
		opts.SubjectID = "emp-1"
	}
	ch := newFakeChannel()
	m := NewMetrics(prometheus.NewRegistry())
	e := NewEngine(opts, NewLoader(src, opts.SubjectID, m, log), NewMonitor(ch, log), ch, m, log)

	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{engine: e, ch: ch, metrics: m, cancel: cancel, errc: make(chan error, 1)}
	go func() { h.errc <- e.Run(ctx) }()
	t.Cleanup(func() { h.stop(t) })

	// Both data subscriptions plus the three lifecycle ones.
	require.Eventually(t, func() bool { return ch.subscriptions() == 5 }, waitFor, tick)
	return h
}

func (h *harness) stop(t *testing.T) {
	t.Helper()
	if h.cancel == nil {
		return
	}
	h.cancel()
	h.cancel = nil
	select {
	case err := <-h.errc:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("engine did not stop")
	}
}

func (h *harness) synced(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return !h.engine.View().Status.SyncedAt.IsZero() }, waitFor, tick)
}

func TestEngine_SnapshotThenDelta(t *testing.T) {
	h := startEngine(t, &fakeSource{}, Options{})
	h.synced(t)

	h.ch.emit(channel.EventStatusUpdate, `{"event_type":"phone","active":true,"timestamp":"2026-03-02T09:00:01"}`)

	require.Eventually(t, func() bool { return h.engine.View().Status.Phone }, waitFor, tick)
	v := h.engine.View()
	assert.False(t, v.Status.Sleep)
	assert.False(t, v.Status.Away)
	assert.Equal(t, models.FieldPhone, v.Status.LastChangedField)
	assert.Equal(t, []Point{{0, 3}}, v.Timeline)
	assert.Equal(t, "emp-1", v.SubjectID)
}

func TestEngine_BatchUpdateReplacesState(t *testing.T) {
	h := startEngine(t, &fakeSource{}, Options{})
	h.synced(t)

	h.ch.emit(channel.EventStatusBatchUpdate, `{"sleep":true,"phone":false,"away":true,"timestamp":"2026-03-02T09:05:00"}`)

	require.Eventually(t, func() bool { return h.engine.View().Status.Sleep }, waitFor, tick)
	v := h.engine.View()
	assert.True(t, v.Status.Away)
	assert.Empty(t, v.Timeline, "snapshots never reach the timeline")
}

func TestEngine_MalformedPayloadIsDropped(t *testing.T) {
	h := startEngine(t, &fakeSource{}, Options{})
	h.synced(t)
	before := h.engine.View().Status

	h.ch.emit(channel.EventStatusUpdate, `{"event_type":"typing","active":true,"timestamp":"2026-03-02T09:00:00"}`)
	h.ch.emit(channel.EventStatusUpdate, `not json`)

	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.updates.WithLabelValues("unknown", resultDropped)))
	assert.Equal(t, before, h.engine.View().Status)
}

func TestEngine_LogsDroppedUpdatesAndConnectionChanges(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := startEngineLogged(t, &fakeSource{}, Options{}, &logger.Logger{SugaredLogger: zap.New(core).Sugar()})

	h.ch.emit(channel.EventStatusUpdate, `{"event_type":"coffee","active":true}`)
	h.ch.emit(channel.EventConnect, "")

	require.Eventually(t, func() bool {
		return logs.FilterMessage("update_dropped").Len() == 1 &&
			logs.FilterMessage("push_connection_changed").Len() == 1
	}, waitFor, tick)
	dropped := logs.FilterMessage("update_dropped").All()[0].ContextMap()
	assert.Equal(t, "unknown", dropped["kind"])
	assert.Contains(t, dropped, "err")
	changed := logs.FilterMessage("push_connection_changed").All()[0].ContextMap()
	assert.Equal(t, "connected", changed["state"])
	assert.Equal(t, "emp-1", changed["subject"])
}

func TestEngine_ConnectionChangesDoNotTouchRecord(t *testing.T) {
	h := startEngine(t, &fakeSource{live: models.LiveStatus{Sleep: true}}, Options{})
	h.synced(t)
	rec := h.engine.View().Status

	views, cancel := h.engine.Watch()
	defer cancel()

	for _, step := range []struct {
		event string
		want  models.ConnectionState
	}{
		{channel.EventConnect, models.Connected},
		{channel.EventDisconnect, models.Disconnected},
		{channel.EventConnect, models.Connected},
	} {
		h.ch.emit(step.event, "")
		require.Eventually(t, func() bool { return h.engine.View().Connection == step.want }, waitFor, tick)
		assert.Equal(t, rec, h.engine.View().Status)
	}

	// The watcher saw every published view, the last one connected.
	var last View
	require.Eventually(t, func() bool {
		select {
		case last = <-views:
		default:
		}
		return last.Connected
	}, waitFor, tick)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.connected))
}

func TestEngine_FailedFetchKeepsState(t *testing.T) {
	src := &fakeSource{live: models.LiveStatus{Away: true}}
	h := startEngine(t, src, Options{PollInterval: tick})
	h.synced(t)

	src.set(func(s *fakeSource) { s.liveErr = errors.New("timeout") })
	before := h.engine.View().Status
	calls := src.calls()

	require.Eventually(t, func() bool { return src.calls() >= calls+3 }, waitFor, tick)
	assert.True(t, before.SameValues(h.engine.View().Status))
	assert.True(t, h.engine.View().Status.Away)
	assert.GreaterOrEqual(t, testutil.ToFloat64(h.metrics.fetchFailures.WithLabelValues("live")), 3.0)

	src.set(func(s *fakeSource) {
		s.liveErr = nil
		s.live = models.LiveStatus{}
	})
	require.Eventually(t, func() bool { return !h.engine.View().Status.Away }, waitFor, tick)
}

func TestEngine_IncompleteLiveBodyKeepsState(t *testing.T) {
	var body atomic.Value
	body.Store(`{"sleep":false,"phone":false,"away":true}`)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/events/live/emp-1" {
			hits.Add(1)
			_, _ = w.Write([]byte(body.Load().(string)))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()
	rest, err := restclient.New(srv.URL, time.Second, logger.Nop())
	require.NoError(t, err)

	h := startEngineWith(t, rest, Options{PollInterval: tick})
	require.Eventually(t, func() bool { return h.engine.View().Status.Away }, waitFor, tick)

	body.Store(`{}`)
	n := hits.Load()
	require.Eventually(t, func() bool { return hits.Load() >= n+3 }, waitFor, tick)
	before := h.engine.View().Status

	require.Eventually(t, func() bool { return hits.Load() >= n+6 }, waitFor, tick)
	after := h.engine.View().Status
	assert.True(t, after.Away)
	assert.Equal(t, before.SyncedAt, after.SyncedAt)
	assert.GreaterOrEqual(t, testutil.ToFloat64(h.metrics.fetchFailures.WithLabelValues("live")), 3.0)
}

func TestEngine_FetchCompletingAfterTeardownIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	src := &fakeSource{live: models.LiveStatus{Sleep: true}, block: gate}
	h := startEngine(t, src, Options{})
	require.Eventually(t, func() bool { return src.calls() == 1 }, waitFor, tick)

	cancel := h.cancel
	h.cancel = nil
	cancel()
	require.Eventually(t, func() bool {
		select {
		case <-h.engine.done:
			return true
		default:
			return false
		}
	}, waitFor, tick)

	// the blocked fetch now completes with a valid snapshot
	close(gate)
	select {
	case err := <-h.errc:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("engine did not stop")
	}

	assert.False(t, h.engine.View().Status.Sleep)
	assert.True(t, h.engine.View().Status.SyncedAt.IsZero())
	assert.Zero(t, testutil.ToFloat64(h.metrics.updates.WithLabelValues("snapshot", resultApplied)))
}

func TestEngine_SeedsTimelineAndSummary(t *testing.T) {
	src := &fakeSource{
		today: []models.TimelineEvent{
			{EventType: models.FieldSleep, Transition: models.TransitionStart, Timestamp: t0},
			{EventType: models.FieldSleep, Transition: models.TransitionEnd, Timestamp: t0.Add(time.Minute)},
		},
		summary: models.Summary{Date: "2026-03-02", SleepMinutes: 1},
	}
	h := startEngine(t, src, Options{})

	require.Eventually(t, func() bool {
		v := h.engine.View()
		return len(v.Timeline) == 2 && v.Summary != nil
	}, waitFor, tick)
	assert.Equal(t, 1, h.engine.View().Summary.SleepMinutes)
}

func TestEngine_MonotonicPolicyIgnoresStaleDelta(t *testing.T) {
	h := startEngine(t, &fakeSource{}, Options{Policy: MonotonicTimestamp})
	h.synced(t)

	h.ch.emit(channel.EventStatusUpdate, `{"event_type":"phone","active":true,"timestamp":"2100-01-01T00:00:00Z"}`)
	require.Eventually(t, func() bool { return h.engine.View().Status.Phone }, waitFor, tick)

	h.ch.emit(channel.EventStatusUpdate, `{"event_type":"phone","active":false,"timestamp":"2099-01-01T00:00:00Z"}`)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(h.metrics.updates.WithLabelValues("delta", resultStale)) == 1
	}, waitFor, tick)
	v := h.engine.View()
	assert.True(t, v.Status.Phone)
	assert.Len(t, v.Timeline, 1)
}

func TestEngine_WatchSeesViewStoredBeforeRegistration(t *testing.T) {
	ch := newFakeChannel()
	log := logger.Nop()
	e := NewEngine(Options{SubjectID: "emp-1"}, NewLoader(&fakeSource{}, "emp-1", nil, log), NewMonitor(ch, log), ch, nil, log)

	e.subMu.Lock()
	got := make(chan (<-chan View), 1)
	go func() {
		views, _ := e.Watch()
		got <- views
	}()
	time.Sleep(4 * tick) // let Watch block on subMu

	// only the store half of publish; its fan-out would wait for subMu
	newer := e.View()
	newer.Status.Phone = true
	e.view.Store(&newer)
	e.subMu.Unlock()

	views := <-got
	select {
	case v := <-views:
		assert.True(t, v.Status.Phone)
	case <-time.After(waitFor):
		t.Fatal("no initial view")
	}
}

func TestEngine_TeardownReleasesEverything(t *testing.T) {
	h := startEngine(t, &fakeSource{}, Options{PollInterval: tick})
	views, _ := h.engine.Watch()
	h.stop(t)

	assert.Zero(t, h.ch.subscriptions())
	assert.False(t, h.engine.post(func() { t.Error("ran after teardown") }))

	// Late pushes are ignored.
	h.ch.emit(channel.EventStatusUpdate, `{"event_type":"away","active":true,"timestamp":"2026-03-02T09:00:00"}`)
	assert.False(t, h.engine.View().Status.Away)

	for range views {
	}
	_, open := <-views
	assert.False(t, open)

	err := h.engine.Run(context.Background())
	assert.ErrorIs(t, err, errAlreadyRunning)
}
