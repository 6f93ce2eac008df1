package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// recorder tracks attach and teardown counts per chat id.
type recorder struct {
	attached map[string]int
	torn     map[string]int
}

func newRecorder() *recorder {
	return &recorder{
		attached: make(map[string]int),
		torn:     make(map[string]int),
	}
}

func (r *recorder) attach(chatID string) []Teardown {
	r.attached[chatID]++
	return []Teardown{
		func() { r.torn[chatID]++ },
		func() { r.torn[chatID]++ },
	}
}

func TestReconcileAttachesAndDetaches(t *testing.T) {
	rec := newRecorder()
	m := NewSubscriptionManager(rec.attach)

	m.Reconcile([]string{"a", "b"})
	assert.ElementsMatch(t, []string{"a", "b"}, m.Active())
	assert.Equal(t, 1, rec.attached["a"])
	assert.Equal(t, 1, rec.attached["b"])

	// b stays, a goes, c arrives
	m.Reconcile([]string{"b", "c"})
	assert.ElementsMatch(t, []string{"b", "c"}, m.Active())
	assert.Equal(t, 1, rec.attached["b"], "kept chat must not re-attach")
	assert.Equal(t, 1, rec.attached["c"])
	assert.Equal(t, 2, rec.torn["a"], "dropped chat must run all teardowns")
	assert.Zero(t, rec.torn["b"])
}

func TestReconcileIsIdempotent(t *testing.T) {
	rec := newRecorder()
	m := NewSubscriptionManager(rec.attach)

	m.Reconcile([]string{"a", "b"})
	m.Reconcile([]string{"a", "b"})
	m.Reconcile([]string{"b", "a"})

	assert.Equal(t, 1, rec.attached["a"])
	assert.Equal(t, 1, rec.attached["b"])
	assert.Empty(t, rec.torn)
}

func TestReconcileIgnoresEmptyIDs(t *testing.T) {
	rec := newRecorder()
	m := NewSubscriptionManager(rec.attach)

	m.Reconcile([]string{"", "a", ""})
	assert.ElementsMatch(t, []string{"a"}, m.Active())
}

func TestCloseTearsDownExactlyOnce(t *testing.T) {
	rec := newRecorder()
	m := NewSubscriptionManager(rec.attach)

	m.Reconcile([]string{"a", "b"})

	m.Close()
	assert.Empty(t, m.Active())
	assert.Equal(t, 2, rec.torn["a"])
	assert.Equal(t, 2, rec.torn["b"])

	// Second close and further reconciles are no-ops
	m.Close()
	m.Reconcile([]string{"a", "c"})
	assert.Empty(t, m.Active())
	assert.Equal(t, 2, rec.torn["a"])
	assert.Zero(t, rec.attached["c"])
}
