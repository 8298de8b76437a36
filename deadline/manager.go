package deadline

import (
	"context"
	"time"

	"github.com/glimte/relay-go/contracts"
)

// Handler receives fired deadlines together with the scope captured when the
// deadline was scheduled.
type Handler interface {
	HandleDeadline(ctx context.Context, msg contracts.Message, scope ScopeDescriptor) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, msg contracts.Message, scope ScopeDescriptor) error

// HandleDeadline implements Handler.
func (f HandlerFunc) HandleDeadline(ctx context.Context, msg contracts.Message, scope ScopeDescriptor) error {
	return f(ctx, msg, scope)
}

// Manager schedules messages for future delivery within a captured execution
// scope. A scheduled deadline is pending until it either fires or is
// cancelled; the two are mutually exclusive and the manager is the sole
// arbiter of the race between them.
//
// ScheduleAt is the one canonical primitive; everything else layers on top
// of it. The free functions Schedule and ScheduleIn add scope capture and id
// generation for callers that want the convenience.
type Manager interface {
	// ScheduleAt schedules a deadline to fire at triggerTime. The given
	// scheduleID must be fresh: reusing an id already taken by another
	// registration fails with *DuplicateScheduleIDError.
	//
	// payloadOrMessage may be a contracts.Message, which donates payload
	// and metadata, or any raw value, which is wrapped with empty metadata.
	ScheduleAt(ctx context.Context, triggerTime time.Time, scope ScopeDescriptor, payloadOrMessage any, scheduleID string) error

	// ScheduleAfter schedules a deadline to fire after delay. A negative
	// delay fires as soon as possible.
	ScheduleAfter(ctx context.Context, delay time.Duration, scope ScopeDescriptor, payloadOrMessage any, scheduleID string) error

	// GenerateScheduleID returns a fresh, globally unique schedule id.
	GenerateScheduleID() string

	// CancelSchedule cancels a pending deadline. Cancelling a deadline that
	// already fired or was already cancelled is a no-op; an id never issued
	// by this manager fails with *InvalidScheduleIDError.
	CancelSchedule(scheduleID string) error
}

// Schedule schedules a deadline at triggerTime with a generated id, capturing
// the active execution scope from ctx. It returns the schedule id to use for
// cancellation.
func Schedule(ctx context.Context, m Manager, triggerTime time.Time, payloadOrMessage any) (string, error) {
	scheduleID := m.GenerateScheduleID()
	if err := m.ScheduleAt(ctx, triggerTime, DescribeScope(ctx), payloadOrMessage, scheduleID); err != nil {
		return "", err
	}
	return scheduleID, nil
}

// ScheduleIn schedules a deadline after delay with a generated id, capturing
// the active execution scope from ctx.
func ScheduleIn(ctx context.Context, m Manager, delay time.Duration, payloadOrMessage any) (string, error) {
	scheduleID := m.GenerateScheduleID()
	if err := m.ScheduleAfter(ctx, delay, DescribeScope(ctx), payloadOrMessage, scheduleID); err != nil {
		return "", err
	}
	return scheduleID, nil
}
