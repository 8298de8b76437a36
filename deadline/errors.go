package deadline

import "fmt"

// InvalidScheduleIDError indicates an operation referenced a schedule id
// that was never issued by this manager instance. Callers may treat it as
// "already fired" only if they are certain the id was once valid.
type InvalidScheduleIDError struct {
	ScheduleID string
}

func (e *InvalidScheduleIDError) Error() string {
	return fmt.Sprintf("schedule id %s is unknown to this deadline manager", e.ScheduleID)
}

// DuplicateScheduleIDError indicates a schedule attempt reused an id that is
// already taken by another registration. This is a caller bug; the existing
// schedule is never silently overwritten.
type DuplicateScheduleIDError struct {
	ScheduleID string
}

func (e *DuplicateScheduleIDError) Error() string {
	return fmt.Sprintf("schedule id %s is already in use", e.ScheduleID)
}
