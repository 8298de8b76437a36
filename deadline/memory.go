package deadline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/glimte/relay-go/contracts"
)

type settledState int

const (
	settledFired settledState = iota + 1
	settledCancelled
)

type pendingSchedule struct {
	timer       *time.Timer
	scope       ScopeDescriptor
	message     contracts.Message
	triggerTime time.Time
}

// InMemoryManager is a Manager that fires deadlines from process-local
// timers. Schedules do not survive a restart; hosts that need durable
// deadlines put a persistent implementation behind the same interface.
type InMemoryManager struct {
	handler Handler
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]*pendingSchedule
	// settled remembers every fired or cancelled id for the manager's
	// lifetime, so cancel-after-fire stays a no-op while never-issued ids
	// are rejected.
	settled map[string]settledState
}

// InMemoryManagerOption configures an InMemoryManager.
type InMemoryManagerOption func(*InMemoryManager)

// WithManagerLogger sets the logger.
func WithManagerLogger(logger *slog.Logger) InMemoryManagerOption {
	return func(m *InMemoryManager) {
		m.logger = logger
	}
}

// NewInMemoryManager creates a manager that delivers fired deadlines to
// handler.
func NewInMemoryManager(handler Handler, opts ...InMemoryManagerOption) (*InMemoryManager, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}
	m := &InMemoryManager{
		handler: handler,
		logger:  slog.Default(),
		pending: make(map[string]*pendingSchedule),
		settled: make(map[string]settledState),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// GenerateScheduleID returns a fresh globally unique schedule id.
func (m *InMemoryManager) GenerateScheduleID() string {
	return contracts.NewIdentifier()
}

// ScheduleAt schedules a deadline to fire at triggerTime.
func (m *InMemoryManager) ScheduleAt(ctx context.Context, triggerTime time.Time, scope ScopeDescriptor, payloadOrMessage any, scheduleID string) error {
	if scheduleID == "" {
		return fmt.Errorf("scheduleID cannot be empty")
	}
	msg, err := NewDeadlineMessage(payloadOrMessage)
	if err != nil {
		return fmt.Errorf("failed to build deadline message: %w", err)
	}

	delay := time.Until(triggerTime)
	if delay < 0 {
		delay = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.pending[scheduleID]; taken {
		return &DuplicateScheduleIDError{ScheduleID: scheduleID}
	}
	if _, taken := m.settled[scheduleID]; taken {
		return &DuplicateScheduleIDError{ScheduleID: scheduleID}
	}

	sched := &pendingSchedule{
		scope:       scope,
		message:     msg,
		triggerTime: triggerTime,
	}
	sched.timer = time.AfterFunc(delay, func() {
		m.fire(scheduleID)
	})
	m.pending[scheduleID] = sched

	m.logger.Debug("deadline scheduled",
		"scheduleId", scheduleID,
		"messageId", msg.ID(),
		"triggerTime", triggerTime)
	return nil
}

// ScheduleAfter schedules a deadline to fire after delay.
func (m *InMemoryManager) ScheduleAfter(ctx context.Context, delay time.Duration, scope ScopeDescriptor, payloadOrMessage any, scheduleID string) error {
	return m.ScheduleAt(ctx, time.Now().Add(delay), scope, payloadOrMessage, scheduleID)
}

// CancelSchedule cancels a pending deadline. See Manager for the exact
// semantics of already-settled and unknown ids.
func (m *InMemoryManager) CancelSchedule(scheduleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sched, ok := m.pending[scheduleID]; ok {
		sched.timer.Stop()
		delete(m.pending, scheduleID)
		m.settled[scheduleID] = settledCancelled
		m.logger.Debug("deadline cancelled", "scheduleId", scheduleID)
		return nil
	}
	if _, ok := m.settled[scheduleID]; ok {
		// Already fired or cancelled; cancelling again is not an error.
		return nil
	}
	return &InvalidScheduleIDError{ScheduleID: scheduleID}
}

// Shutdown stops all pending timers without invoking the handler. Pending
// schedules are marked cancelled.
func (m *InMemoryManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for scheduleID, sched := range m.pending {
		sched.timer.Stop()
		delete(m.pending, scheduleID)
		m.settled[scheduleID] = settledCancelled
	}
}

// fire resolves the race against CancelSchedule: whichever side removes the
// schedule from the pending map first wins, the other becomes a no-op.
func (m *InMemoryManager) fire(scheduleID string) {
	m.mu.Lock()
	sched, ok := m.pending[scheduleID]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.pending, scheduleID)
	m.settled[scheduleID] = settledFired
	m.mu.Unlock()

	ctx := WithScope(context.Background(), sched.scope)
	if err := m.handler.HandleDeadline(ctx, sched.message, sched.scope); err != nil {
		m.logger.Error("deadline handler failed",
			"scheduleId", scheduleID,
			"messageId", sched.message.ID(),
			"error", err)
		return
	}
	m.logger.Debug("deadline fired",
		"scheduleId", scheduleID,
		"messageId", sched.message.ID())
}
