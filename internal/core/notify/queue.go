package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Subscriber is a callback invoked after a notification is added.
type Subscriber func(Notification)

// Queue keeps the active notifications in display order and removes each
// one when its duration elapses. Expiry timers run on their own goroutines,
// so every access goes through the mutex. The zero value is not usable;
// construct with NewQueue.
type Queue struct {
	mu            sync.Mutex
	notifications []Notification
	timers        map[uuid.UUID]*time.Timer
	subscribers   []Subscriber
	closed        bool

	durations Durations
	now       func() time.Time
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithDurations overrides the durations used by the Show helpers.
func WithDurations(d Durations) QueueOption {
	return func(q *Queue) { q.durations = d }
}

// NewQueue creates an empty queue. Call Close when the application shuts
// down to stop pending timers.
func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		timers:    make(map[uuid.UUID]*time.Timer),
		durations: DefaultDurations(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Subscribe registers a callback that will be invoked on every Add.
// Callbacks run on the adding goroutine, outside the queue lock.
func (q *Queue) Subscribe(fn Subscriber) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.subscribers = append(q.subscribers, fn)
}

// Add appends a notification and returns its id without waiting for it to
// expire. An empty kind becomes DefaultKind and a negative duration is
// treated as zero (persistent). After Close, Add is a no-op returning
// uuid.Nil.
func (q *Queue) Add(message string, kind Kind, d time.Duration) uuid.UUID {
	if kind == "" {
		kind = DefaultKind
	}
	if d < 0 {
		d = 0
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return uuid.Nil
	}

	n := Notification{
		ID:        newID(),
		Kind:      kind,
		Message:   message,
		Duration:  d,
		CreatedAt: q.now(),
	}
	q.notifications = append(q.notifications, n)

	if d > 0 {
		id := n.ID
		q.timers[id] = time.AfterFunc(d, func() { q.expire(id) })
	}

	subs := slices.Clone(q.subscribers)
	q.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
	return n.ID
}

// AddDefault adds an info notification with DefaultDuration.
func (q *Queue) AddDefault(message string) uuid.UUID {
	return q.Add(message, DefaultKind, DefaultDuration)
}

// ShowSuccess adds a success notification. Without a duration it uses the
// queue's success duration. The other Show helpers work the same way.
func (q *Queue) ShowSuccess(message string, d ...time.Duration) uuid.UUID {
	return q.Add(message, KindSuccess, pick(d, q.durations.Success))
}

func (q *Queue) ShowError(message string, d ...time.Duration) uuid.UUID {
	return q.Add(message, KindError, pick(d, q.durations.Error))
}

func (q *Queue) ShowWarning(message string, d ...time.Duration) uuid.UUID {
	return q.Add(message, KindWarning, pick(d, q.durations.Warning))
}

func (q *Queue) ShowInfo(message string, d ...time.Duration) uuid.UUID {
	return q.Add(message, KindInfo, pick(d, q.durations.Info))
}

// Remove deletes the notification with the given id and cancels its timer.
// Removing an unknown or already removed id is a no-op.
func (q *Queue) Remove(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	q.removeLocked(id)
}

// ClearAll removes every notification and cancels the outstanding timers.
func (q *Queue) ClearAll() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.stopTimersLocked()
	q.notifications = nil
}

// Notifications returns a copy of the active notifications in display order.
func (q *Queue) Notifications() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.notifications)
}

// Len returns the number of active notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.notifications)
}

// Close stops all timers and empties the queue. Later calls to Add are
// ignored. Close is safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.stopTimersLocked()
	q.notifications = nil
	q.subscribers = nil
	q.closed = true
}

// expire runs on the timer goroutine. A timer that fired while Remove or
// ClearAll held the lock finds nothing left to do.
func (q *Queue) expire(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.timers, id)
	q.removeLocked(id)
}

func (q *Queue) removeLocked(id uuid.UUID) {
	idx := slices.IndexFunc(q.notifications, func(n Notification) bool { return n.ID == id })
	if idx >= 0 {
		q.notifications = slices.Delete(q.notifications, idx, idx+1)
	}
}

func (q *Queue) stopTimersLocked() {
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
}

func pick(d []time.Duration, fallback time.Duration) time.Duration {
	if len(d) > 0 {
		return d[0]
	}
	return fallback
}

// newID returns a time-ordered UUID so ids sort in creation order.
func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
