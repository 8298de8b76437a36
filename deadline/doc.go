// Package deadline schedules messages for future delivery within a captured
// execution scope. Saga- and timer-driven application code schedules a
// deadline, receives an opaque schedule id, and may cancel it any time before
// it fires; firing and cancellation are mutually exclusive terminal states.
//
// The Manager interface keeps a single scheduling primitive, ScheduleAt; the
// duration-based and auto-id entry points are layered on top of it. Scope
// capture is explicit through context.Context rather than ambient state: use
// WithScope to mark the active scope and the Schedule/ScheduleIn helpers to
// capture it at the call site.
package deadline
