package realtime

import (
	"log"
	"sync"
)

// Teardown detaches one listener. Every attached listener must be torn down
// exactly once: the store has no server-side subscription GC, so a leaked
// listener runs until process exit.
type Teardown func()

// AttachFunc attaches the listener group for one chat (typing, presence,
// last-message) and returns the teardown callbacks for that group.
type AttachFunc func(chatID string) []Teardown

// SubscriptionManager reconciles the desired set of chat ids against the
// attached listener groups. At most one group exists per chat id.
type SubscriptionManager struct {
	mu     sync.Mutex
	attach AttachFunc
	active map[string][]Teardown
	closed bool
}

func NewSubscriptionManager(attach AttachFunc) *SubscriptionManager {
	return &SubscriptionManager{
		attach: attach,
		active: make(map[string][]Teardown),
	}
}

// Reconcile attaches listener groups for chat ids that appear in desired but
// have no group yet, and tears down groups whose chat id is gone. Calling it
// again with the same set is a no-op: the active map doubles as the
// already-subscribed guard.
func (m *SubscriptionManager) Reconcile(desired []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	want := make(map[string]bool, len(desired))
	for _, id := range desired {
		if id != "" {
			want[id] = true
		}
	}

	for id, teardowns := range m.active {
		if !want[id] {
			runAll(teardowns)
			delete(m.active, id)
			log.Printf("SubscriptionManager: detached listeners for chat %s", id)
		}
	}

	for id := range want {
		if _, ok := m.active[id]; ok {
			continue
		}
		m.active[id] = m.attach(id)
	}
}

// Active returns the chat ids that currently hold a listener group.
func (m *SubscriptionManager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.active))
	for id := range m.active {
		ids = append(ids, id)
	}
	return ids
}

// Close tears down every listener group. Safe to call more than once; only
// the first call runs teardowns.
func (m *SubscriptionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	for id, teardowns := range m.active {
		runAll(teardowns)
		delete(m.active, id)
	}
}

func runAll(teardowns []Teardown) {
	for _, td := range teardowns {
		if td != nil {
			td()
		}
	}
}
