package dashboard

import (
	"sync"
	"sync/atomic"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/channel"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/logger"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
)

// Monitor tracks the lifecycle of the push channel.
// It owns no retries; the channel client redials on its own.
type Monitor struct {
	ch  channel.Subscriber
	log *logger.Logger

	state atomic.Int32

	// mu also serializes onChange calls, so transitions are reported in the order observed.
	mu       sync.Mutex
	seq      uint64 // lifecycle events seen since Start
	tokens   []channel.Token
	onChange func(models.ConnectionState)
}

// NewMonitor returns a stopped monitor over ch.
func NewMonitor(ch channel.Subscriber, log *logger.Logger) *Monitor {
	return &Monitor{ch: ch, log: log}
}

// Start subscribes to the lifecycle events and then asks the channel whether it is already up.
// A lifecycle event that arrives while the channel is being asked wins over the answer.
// onChange is called on every observed transition, possibly from the channel's goroutine.
func (m *Monitor) Start(onChange func(models.ConnectionState)) {
	m.mu.Lock()
	if len(m.tokens) > 0 {
		m.mu.Unlock()
		return
	}
	m.onChange = onChange
	m.tokens = []channel.Token{
		m.ch.Subscribe(channel.EventConnect, func([]byte) { m.set(models.Connected) }),
		m.ch.Subscribe(channel.EventDisconnect, func([]byte) { m.set(models.Disconnected) }),
		m.ch.Subscribe(channel.EventConnectError, func(data []byte) {
			m.log.Warnw("push_connect_error", "detail", string(data))
			m.set(models.ConnectionError)
		}),
	}
	seq := m.seq
	m.mu.Unlock()

	up := m.ch.Connected()

	m.mu.Lock()
	defer m.mu.Unlock()
	if up && m.seq == seq && len(m.tokens) > 0 {
		m.report(models.Connected)
	}
}

// Stop releases the subscriptions. Transitions after Stop are not reported.
func (m *Monitor) Stop() {
	m.mu.Lock()
	tokens := m.tokens
	m.tokens = nil
	m.onChange = nil
	m.mu.Unlock()

	for _, tok := range tokens {
		m.ch.Unsubscribe(tok)
	}
}

// State returns the last observed connection state.
func (m *Monitor) State() models.ConnectionState {
	return models.ConnectionState(m.state.Load())
}

func (m *Monitor) set(s models.ConnectionState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.report(s)
}

// report must be called with mu held.
func (m *Monitor) report(s models.ConnectionState) {
	m.state.Store(int32(s))
	if m.onChange != nil {
		m.onChange(s)
	}
}
