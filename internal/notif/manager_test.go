package notif

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"venuehub/internal/common"
)

type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) Update(event common.MessageEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockObserver) Name() string {
	args := m.Called()
	return args.String(0)
}

type blockingObserver struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once

	mu   sync.Mutex
	seen []common.MessageEvent
}

func (b *blockingObserver) Name() string { return "blocking" }

func (b *blockingObserver) Update(event common.MessageEvent) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen = append(b.seen, event)
	return nil
}

func sentEvent(id string) common.MessageEvent {
	return common.MessageEvent{
		Type:       common.MessageSentEvent,
		MessageID:  id,
		SenderID:   "A",
		ReceiverID: "V",
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestEventManager_NotifyDeliversToAllObservers(t *testing.T) {
	em := NewEventManager(1, 10, zap.NewNop())
	defer em.Shutdown()

	first := new(MockObserver)
	first.On("Name").Return("first")
	first.On("Update", sentEvent("1")).Return(nil).Once()
	second := new(MockObserver)
	second.On("Name").Return("second")
	second.On("Update", sentEvent("1")).Return(errors.New("broker down")).Once()

	em.Subscribe(first)
	em.Subscribe(second)
	em.Notify(sentEvent("1"))

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestEventManager_FailingObserverIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	em := NewEventManager(1, 10, zap.New(core))
	defer em.Shutdown()

	obs := new(MockObserver)
	obs.On("Name").Return("flaky")
	obs.On("Update", mock.Anything).Return(errors.New("boom"))
	em.Subscribe(obs)

	em.Notify(sentEvent("1"))

	entries := logs.FilterMessage("observer update failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "flaky", entries[0].ContextMap()["observer"])
}

func TestEventManager_Unsubscribe(t *testing.T) {
	em := NewEventManager(1, 10, nil)
	defer em.Shutdown()

	obs := new(MockObserver)
	obs.On("Name").Return("gone")
	em.Subscribe(obs)
	em.Unsubscribe(obs)

	em.Notify(sentEvent("1"))

	obs.AssertNotCalled(t, "Update", mock.Anything)
}

func TestEventManager_NotifyAsyncDrainsOnShutdown(t *testing.T) {
	em := NewEventManager(2, 10, nil)
	obs := &blockingObserver{started: make(chan struct{}), release: make(chan struct{})}
	close(obs.release)
	em.Subscribe(obs)

	for _, id := range []string{"1", "2", "3"} {
		em.NotifyAsync(sentEvent(id))
	}
	em.Shutdown()

	assert.Len(t, obs.seen, 3)
}

func TestEventManager_DropsWhenQueueFull(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	em := NewEventManager(1, 1, zap.New(core))
	obs := &blockingObserver{started: make(chan struct{}), release: make(chan struct{})}
	em.Subscribe(obs)

	em.NotifyAsync(sentEvent("1"))
	<-obs.started
	em.NotifyAsync(sentEvent("2"))
	em.NotifyAsync(sentEvent("3"))

	close(obs.release)
	em.Shutdown()

	assert.Len(t, obs.seen, 2)
	assert.Equal(t, 1, logs.FilterMessage("event queue full, dropping event").Len())
}

func TestEventManager_NotifyAsyncAfterShutdown(t *testing.T) {
	em := NewEventManager(1, 1, nil)
	em.Shutdown()

	assert.NotPanics(t, func() {
		em.NotifyAsync(sentEvent("late"))
		em.Shutdown()
	})
}

func TestEventManager_ShutdownClosesObservers(t *testing.T) {
	em := NewEventManager(1, 1, nil)
	writer := &fakeWriter{}
	em.Subscribe(NewKafkaObserver(writer))

	em.Shutdown()

	assert.True(t, writer.closed)
}
