package sim

import (
	"sort"
	"sync"
	"time"
)

// Task is a handle to a periodic callback.
type Task interface {
	// Cancel stops future invocations. It does not wait for a callback that
	// is already running, so it is safe to call from inside one.
	Cancel()
}

// Scheduler runs a callback every interval until the returned task is
// canceled.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
}

// TickerScheduler drives each task from its own time.Ticker goroutine.
type TickerScheduler struct {
	dispatch func(func())
}

type TickerOption func(*TickerScheduler)

// WithDispatch hands every tick to d instead of calling it on the ticker
// goroutine, e.g. to serialize ticks onto a UI event loop.
func WithDispatch(d func(func())) TickerOption {
	return func(s *TickerScheduler) {
		s.dispatch = d
	}
}

func NewTickerScheduler(opts ...TickerOption) *TickerScheduler {
	s := &TickerScheduler{
		dispatch: func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type tickerTask struct {
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func (s *TickerScheduler) Every(interval time.Duration, fn func()) Task {
	t := &tickerTask{
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-t.stopChan:
				return
			case <-ticker.C:
				// a cancel that raced the tick wins
				select {
				case <-t.stopChan:
					return
				default:
				}
				s.dispatch(fn)
			}
		}
	}()

	return t
}

func (t *tickerTask) Cancel() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
	})
}

// Done is closed once the ticker goroutine has exited.
func (t *tickerTask) Done() <-chan struct{} { return t.done }

// ManualScheduler runs tasks on virtual time advanced by the caller. Ticks
// fire on the caller's goroutine in chronological order.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
	fired int
}

type manualTask struct {
	s        *ManualScheduler
	id       int
	interval time.Duration
	next     time.Duration
	fn       func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) Every(interval time.Duration, fn func()) Task {
	if interval <= 0 {
		interval = time.Millisecond
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTask{s: m, id: m.seq, interval: interval, next: m.now + interval, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

func (t *manualTask) Cancel() {
	m := t.s
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, other := range m.tasks {
		if other == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}

// Advance moves virtual time forward by d, firing every tick that falls due.
// It returns the number of callbacks fired.
func (m *ManualScheduler) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	n := 0
	for m.fireNext(target) {
		n++
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
	return n
}

// Fire runs the next n due ticks regardless of their time, advancing
// virtual time as it goes. It stops early when no task is active.
func (m *ManualScheduler) Fire(n int) int {
	fired := 0
	for fired < n && m.fireNext(-1) {
		fired++
	}
	return fired
}

// fireNext runs the earliest pending tick at or before limit; a negative
// limit means no limit.
func (m *ManualScheduler) fireNext(limit time.Duration) bool {
	m.mu.Lock()
	if len(m.tasks) == 0 {
		m.mu.Unlock()
		return false
	}
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].next == m.tasks[j].next {
			return m.tasks[i].id < m.tasks[j].id
		}
		return m.tasks[i].next < m.tasks[j].next
	})
	t := m.tasks[0]
	if limit >= 0 && t.next > limit {
		m.mu.Unlock()
		return false
	}
	m.now = t.next
	t.next += t.interval
	m.fired++
	fn := t.fn
	m.mu.Unlock()

	fn()
	return true
}

// Active is the number of tasks that have not been canceled.
func (m *ManualScheduler) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Fired is the total number of callbacks run.
func (m *ManualScheduler) Fired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fired
}

func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
