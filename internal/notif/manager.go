// Package notif fans message events out to observers.
package notif

import (
	"sync"

	"go.uber.org/zap"

	"venuehub/internal/common"
)

// EventManager delivers events to every subscribed observer. NotifyAsync
// queues the event for a fixed pool of workers and drops it when the queue
// is full.
type EventManager struct {
	observers map[string]common.Observer
	mu        sync.RWMutex

	events  chan common.MessageEvent
	sendMu  sync.RWMutex
	closed  bool
	workers int
	wg      sync.WaitGroup

	log *zap.Logger
}

var _ common.Subject = (*EventManager)(nil)

func NewEventManager(workers, buffer int, logger *zap.Logger) *EventManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}

	em := &EventManager{
		observers: make(map[string]common.Observer),
		events:    make(chan common.MessageEvent, buffer),
		workers:   workers,
		log:       logger,
	}
	for i := 0; i < workers; i++ {
		em.wg.Add(1)
		go em.processEvents()
	}
	return em
}

func (em *EventManager) Subscribe(observer common.Observer) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.observers[observer.Name()] = observer
	em.log.Info("observer subscribed", zap.String("observer", observer.Name()))
}

func (em *EventManager) Unsubscribe(observer common.Observer) {
	em.mu.Lock()
	defer em.mu.Unlock()
	delete(em.observers, observer.Name())
	em.log.Info("observer unsubscribed", zap.String("observer", observer.Name()))
}

// Notify delivers event synchronously. A failing observer does not stop
// delivery to the others.
func (em *EventManager) Notify(event common.MessageEvent) {
	em.mu.RLock()
	observers := make([]common.Observer, 0, len(em.observers))
	for _, obs := range em.observers {
		observers = append(observers, obs)
	}
	em.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(event); err != nil {
			em.log.Warn("observer update failed",
				zap.String("observer", observer.Name()),
				zap.String("event_type", string(event.Type)),
				zap.Error(err),
			)
		}
	}
}

func (em *EventManager) NotifyAsync(event common.MessageEvent) {
	em.sendMu.RLock()
	defer em.sendMu.RUnlock()
	if em.closed {
		return
	}

	select {
	case em.events <- event:
	default:
		em.log.Warn("event queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("key", event.Key()),
		)
	}
}

func (em *EventManager) processEvents() {
	defer em.wg.Done()
	for event := range em.events {
		em.Notify(event)
	}
}

// Shutdown stops accepting events, waits for queued ones to be delivered
// and closes observers that hold resources.
func (em *EventManager) Shutdown() {
	em.sendMu.Lock()
	if em.closed {
		em.sendMu.Unlock()
		return
	}
	em.closed = true
	close(em.events)
	em.sendMu.Unlock()

	em.wg.Wait()

	em.mu.Lock()
	defer em.mu.Unlock()
	for name, obs := range em.observers {
		closer, ok := obs.(interface{ Close() error })
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			em.log.Warn("observer close failed", zap.String("observer", name), zap.Error(err))
		}
	}
	em.log.Info("event manager shutdown complete")
}
