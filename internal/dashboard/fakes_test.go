package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/channel"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
)

// fakeChannel is an in-memory push channel.
type fakeChannel struct {
	mu        sync.Mutex
	seq       int
	subs      map[channel.Token]fakeSub
	connected bool

	// afterConnected runs once after Connected has read the state, before it returns.
	afterConnected func()
}

type fakeSub struct {
	event string
	h     channel.Handler
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{subs: map[channel.Token]fakeSub{}}
}

func (f *fakeChannel) Subscribe(event string, h channel.Handler) channel.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	tok := channel.Token(fmt.Sprintf("tok-%d", f.seq))
	f.subs[tok] = fakeSub{event: event, h: h}
	return tok
}

func (f *fakeChannel) Unsubscribe(tok channel.Token) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, tok)
}

func (f *fakeChannel) Connected() bool {
	f.mu.Lock()
	up := f.connected
	hook := f.afterConnected
	f.afterConnected = nil
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return up
}

func (f *fakeChannel) subscriptions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *fakeChannel) emit(event string, data string) {
	f.mu.Lock()
	switch event {
	case channel.EventConnect:
		f.connected = true
	case channel.EventDisconnect, channel.EventConnectError:
		f.connected = false
	}
	var hs []channel.Handler
	for _, s := range f.subs {
		if s.event == event {
			hs = append(hs, s.h)
		}
	}
	f.mu.Unlock()

	for _, h := range hs {
		h([]byte(data))
	}
}

// fakeSource serves canned REST answers.
type fakeSource struct {
	mu         sync.Mutex
	live       models.LiveStatus
	liveErr    error
	liveCalls  int
	block      chan struct{} // when set, Live waits for it to close, ignoring ctx
	today      []models.TimelineEvent
	todayErr   error
	summary    models.Summary
	summaryErr error
}

func (s *fakeSource) Live(context.Context, string) (models.LiveStatus, error) {
	s.mu.Lock()
	s.liveCalls++
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live, s.liveErr
}

func (s *fakeSource) Today(context.Context, string) ([]models.TimelineEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.today, s.todayErr
}

func (s *fakeSource) Summary(context.Context, string) (models.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary, s.summaryErr
}

func (s *fakeSource) set(fn func(s *fakeSource)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func (s *fakeSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveCalls
}
