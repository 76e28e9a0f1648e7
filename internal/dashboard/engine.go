package dashboard

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/channel"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/logger"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
)

const (
	inboxSize      = 64
	seedRetry      = 5 * time.Second
	summaryRefresh = time.Minute
)

var errAlreadyRunning = errors.New("engine already running")

// Options configure an Engine.
type Options struct {
	SubjectID    string
	Policy       Policy
	PollInterval time.Duration // 0 disables periodic snapshots
	TimelineMax  int           // 0 keeps every event
}

// Engine owns the dashboard state. Every input is turned into a closure on the inbox
// and run by a single goroutine, so the record and the timeline need no locking.
// Readers only ever see published View values.
type Engine struct {
	opts       Options
	reconciler Reconciler
	loader     *Loader
	monitor    *Monitor
	ch         channel.Subscriber
	metrics    *Metrics
	log        *logger.Logger

	inbox   chan func()
	done    chan struct{} // closed when the run loop exits
	started atomic.Bool

	// owned by the run loop
	record   models.StatusRecord
	conn     models.ConnectionState
	timeline *Timeline
	summary  *models.Summary

	view atomic.Pointer[View]

	subMu   sync.Mutex
	subs    map[string]chan View
	stopped bool
}

// NewEngine wires an engine. metrics may be nil.
func NewEngine(opts Options, loader *Loader, monitor *Monitor, ch channel.Subscriber, metrics *Metrics, log *logger.Logger) *Engine {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	e := &Engine{
		opts:       opts,
		reconciler: Reconciler{Policy: opts.Policy},
		loader:     loader,
		monitor:    monitor,
		ch:         ch,
		metrics:    metrics,
		log:        log,
		inbox:      make(chan func(), inboxSize),
		done:       make(chan struct{}),
		timeline:   NewTimeline(opts.TimelineMax),
		subs:       make(map[string]chan View),
	}
	v := e.compose()
	e.view.Store(&v)
	return e
}

// Run subscribes to the push channel, starts the loaders and processes inputs until ctx ends.
// On return every subscription is released and late fetch completions are discarded.
func (e *Engine) Run(ctx context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return errAlreadyRunning
	}

	tokens := []channel.Token{
		e.ch.Subscribe(channel.EventStatusUpdate, e.onPush),
		e.ch.Subscribe(channel.EventStatusBatchUpdate, e.onPush),
	}
	e.monitor.Start(func(s models.ConnectionState) {
		e.post(func() { e.setConnection(s) })
	})
	defer func() {
		e.monitor.Stop()
		for _, tok := range tokens {
			e.ch.Unsubscribe(tok)
		}
		e.closeWatchers()
	}()

	e.log.Infow("dashboard_engine_started", "subject", e.opts.SubjectID, "policy", e.opts.Policy.String(), "poll", e.opts.PollInterval.String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.loop(gctx)
		return nil
	})
	g.Go(func() error {
		if s, err := e.loader.Load(gctx); err == nil {
			e.post(func() { e.apply(s) })
		}
		return nil
	})
	g.Go(func() error {
		e.seedTimeline(gctx)
		return nil
	})
	g.Go(func() error {
		e.refreshSummary(gctx)
		return nil
	})
	if e.opts.PollInterval > 0 {
		g.Go(func() error {
			e.loader.Run(gctx, e.opts.PollInterval, func(s models.Snapshot) {
				e.post(func() { e.apply(s) })
			})
			return nil
		})
	}

	err := g.Wait()
	e.log.Infow("dashboard_engine_stopped", "subject", e.opts.SubjectID)
	return err
}

// View returns the latest published view.
func (e *Engine) View() View {
	return *e.view.Load()
}

// Watch returns a channel that receives the current view and every later one.
// Slow readers only get the newest view. The channel is closed by cancel or when the engine stops.
func (e *Engine) Watch() (<-chan View, func()) {
	ch := make(chan View, 1)

	// publish stores the view before taking subMu, so reading it under the lock misses nothing.
	e.subMu.Lock()
	defer e.subMu.Unlock()
	ch <- e.View()
	if e.stopped {
		close(ch)
		return ch, func() {}
	}
	id := uuid.NewString()
	e.subs[id] = ch
	return ch, func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		if c, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(c)
		}
	}
}

func (e *Engine) loop(ctx context.Context) {
	defer close(e.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-e.inbox:
			fn()
		}
	}
}

// post queues fn for the run loop. It reports false once the loop has stopped.
func (e *Engine) post(fn func()) bool {
	select {
	case <-e.done:
		return false
	default:
	}
	select {
	case e.inbox <- fn:
		return true
	case <-e.done:
		return false
	}
}

// onPush runs on the channel client's goroutine.
func (e *Engine) onPush(data []byte) {
	u, err := channel.DecodeUpdate(data)
	if err != nil {
		e.metrics.updates.WithLabelValues("unknown", resultDropped).Inc()
		e.log.Warnw("update_dropped", "kind", "unknown", "payload", string(data), "err", err)
		return
	}
	e.post(func() { e.apply(u) })
}

func (e *Engine) apply(u models.Update) {
	kind := kindOf(u)
	next, err := e.reconciler.Reconcile(e.record, u)
	switch {
	case errors.Is(err, ErrStaleUpdate):
		e.metrics.updates.WithLabelValues(kind, resultStale).Inc()
		e.log.Debugw("update_stale", "kind", kind, "update", u)
		return
	case err != nil:
		e.metrics.updates.WithLabelValues(kind, resultDropped).Inc()
		e.log.Warnw("update_dropped", "kind", kind, "err", err)
		return
	}

	e.record = next
	e.metrics.updates.WithLabelValues(kind, resultApplied).Inc()
	if d, ok := u.(models.Delta); ok {
		e.timeline.Append(TimelineEventOf(d))
	}
	e.publish()
}

func (e *Engine) setConnection(s models.ConnectionState) {
	if s == e.conn {
		return
	}
	e.log.Infow("push_connection_changed", "subject", e.opts.SubjectID, "state", s.String())
	e.conn = s
	if s == models.Connected {
		e.metrics.connected.Set(1)
	} else {
		e.metrics.connected.Set(0)
	}
	e.publish()
}

// seedTimeline loads today's history once, retrying until it succeeds or ctx ends.
func (e *Engine) seedTimeline(ctx context.Context) {
	retry := e.opts.PollInterval
	if retry <= 0 {
		retry = seedRetry
	}
	for {
		events, err := e.loader.LoadToday(ctx)
		if err == nil {
			e.post(func() {
				e.timeline.Seed(events)
				e.publish()
			})
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(retry):
		}
	}
}

func (e *Engine) refreshSummary(ctx context.Context) {
	ticker := time.NewTicker(summaryRefresh)
	defer ticker.Stop()
	for {
		if s, err := e.loader.LoadSummary(ctx); err == nil {
			e.post(func() {
				e.summary = &s
				e.publish()
			})
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (e *Engine) compose() View {
	v := Compose(e.record, e.conn, slices.Collect(e.timeline.Project()), e.summary)
	v.SubjectID = e.opts.SubjectID
	return v
}

func (e *Engine) publish() {
	v := e.compose()
	e.view.Store(&v)
	e.metrics.timelineLen.Set(float64(e.timeline.Len()))

	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}

func (e *Engine) closeWatchers() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.stopped = true
	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
	}
}

func kindOf(u models.Update) string {
	switch u.(type) {
	case models.Delta:
		return "delta"
	case models.Snapshot:
		return "snapshot"
	}
	return "unknown"
}
