package deadline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glimte/relay-go/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentDue struct {
	InvoiceID string
}

// recordingHandler collects fired deadlines for assertions.
type recordingHandler struct {
	mu     sync.Mutex
	fired  []contracts.Message
	scopes []ScopeDescriptor
	done   chan struct{}
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{done: make(chan struct{}, 16)}
}

func (h *recordingHandler) HandleDeadline(ctx context.Context, msg contracts.Message, scope ScopeDescriptor) error {
	h.mu.Lock()
	h.fired = append(h.fired, msg)
	h.scopes = append(h.scopes, scope)
	h.mu.Unlock()
	select {
	case h.done <- struct{}{}:
	default:
	}
	return nil
}

func (h *recordingHandler) firedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.fired)
}

func (h *recordingHandler) waitForFire(t *testing.T) {
	t.Helper()
	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("deadline did not fire in time")
	}
}

func TestInMemoryManagerSchedule(t *testing.T) {
	t.Run("a due deadline fires with the captured scope", func(t *testing.T) {
		handler := newRecordingHandler()
		manager, err := NewInMemoryManager(handler)
		require.NoError(t, err)
		defer manager.Shutdown()
		scope := NewScopeDescriptor("aggregate", "order-1")

		scheduleID := manager.GenerateScheduleID()
		err = manager.ScheduleAfter(context.Background(), 10*time.Millisecond, scope, paymentDue{InvoiceID: "i-1"}, scheduleID)
		require.NoError(t, err)

		handler.waitForFire(t)
		require.Equal(t, 1, handler.firedCount())
		assert.Equal(t, scope, handler.scopes[0])
		payload, err := handler.fired[0].Payload()
		require.NoError(t, err)
		assert.Equal(t, paymentDue{InvoiceID: "i-1"}, payload)
	})

	t.Run("a trigger time in the past fires immediately", func(t *testing.T) {
		handler := newRecordingHandler()
		manager, err := NewInMemoryManager(handler)
		require.NoError(t, err)
		defer manager.Shutdown()

		err = manager.ScheduleAt(context.Background(), time.Now().Add(-time.Minute),
			NewScopeDescriptor("saga", "s-1"), paymentDue{}, manager.GenerateScheduleID())
		require.NoError(t, err)

		handler.waitForFire(t)
	})

	t.Run("a message input donates payload and metadata verbatim", func(t *testing.T) {
		handler := newRecordingHandler()
		manager, err := NewInMemoryManager(handler)
		require.NoError(t, err)
		defer manager.Shutdown()
		donor := contracts.NewMessage("PaymentDue", paymentDue{InvoiceID: "i-2"}).
			WithMetaData(contracts.MetaDataWith("tenant", "acme"))

		err = manager.ScheduleAfter(context.Background(), time.Millisecond,
			NewScopeDescriptor("saga", "s-1"), donor, manager.GenerateScheduleID())
		require.NoError(t, err)

		handler.waitForFire(t)
		payload, err := handler.fired[0].Payload()
		require.NoError(t, err)
		assert.Equal(t, paymentDue{InvoiceID: "i-2"}, payload)
		md, err := handler.fired[0].MetaData()
		require.NoError(t, err)
		assert.True(t, contracts.MetaDataWith("tenant", "acme").Equals(md))
		assert.Equal(t, "PaymentDue", handler.fired[0].Name())
	})

	t.Run("a raw payload is wrapped with empty metadata", func(t *testing.T) {
		handler := newRecordingHandler()
		manager, err := NewInMemoryManager(handler)
		require.NoError(t, err)
		defer manager.Shutdown()

		err = manager.ScheduleAfter(context.Background(), time.Millisecond,
			NewScopeDescriptor("saga", "s-1"), paymentDue{}, manager.GenerateScheduleID())
		require.NoError(t, err)

		handler.waitForFire(t)
		md, err := handler.fired[0].MetaData()
		require.NoError(t, err)
		assert.Len(t, md, 0)
	})

	t.Run("reusing a pending schedule id fails", func(t *testing.T) {
		handler := newRecordingHandler()
		manager, err := NewInMemoryManager(handler)
		require.NoError(t, err)
		defer manager.Shutdown()
		scheduleID := manager.GenerateScheduleID()
		scope := NewScopeDescriptor("saga", "s-1")

		require.NoError(t, manager.ScheduleAfter(context.Background(), time.Hour, scope, paymentDue{}, scheduleID))
		err = manager.ScheduleAfter(context.Background(), time.Hour, scope, paymentDue{}, scheduleID)

		var dup *DuplicateScheduleIDError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, scheduleID, dup.ScheduleID)
	})

	t.Run("an empty schedule id is rejected", func(t *testing.T) {
		manager, err := NewInMemoryManager(newRecordingHandler())
		require.NoError(t, err)
		defer manager.Shutdown()

		err = manager.ScheduleAfter(context.Background(), time.Hour,
			NewScopeDescriptor("saga", "s-1"), paymentDue{}, "")

		assert.Error(t, err)
	})

	t.Run("generated schedule ids are unique", func(t *testing.T) {
		manager, err := NewInMemoryManager(newRecordingHandler())
		require.NoError(t, err)
		defer manager.Shutdown()

		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			id := manager.GenerateScheduleID()
			assert.False(t, seen[id])
			seen[id] = true
		}
	})
}

func TestInMemoryManagerCancel(t *testing.T) {
	t.Run("cancel before the trigger time prevents firing", func(t *testing.T) {
		handler := newRecordingHandler()
		manager, err := NewInMemoryManager(handler)
		require.NoError(t, err)
		defer manager.Shutdown()
		scheduleID := manager.GenerateScheduleID()

		require.NoError(t, manager.ScheduleAfter(context.Background(), 50*time.Millisecond,
			NewScopeDescriptor("saga", "s-1"), paymentDue{}, scheduleID))
		require.NoError(t, manager.CancelSchedule(scheduleID))

		time.Sleep(150 * time.Millisecond)
		assert.Equal(t, 0, handler.firedCount())
	})

	t.Run("cancel after firing is a no-op, not an error", func(t *testing.T) {
		handler := newRecordingHandler()
		manager, err := NewInMemoryManager(handler)
		require.NoError(t, err)
		defer manager.Shutdown()
		scheduleID := manager.GenerateScheduleID()

		require.NoError(t, manager.ScheduleAfter(context.Background(), time.Millisecond,
			NewScopeDescriptor("saga", "s-1"), paymentDue{}, scheduleID))
		handler.waitForFire(t)

		assert.NoError(t, manager.CancelSchedule(scheduleID))
	})

	t.Run("cancelling an id that was never issued fails", func(t *testing.T) {
		manager, err := NewInMemoryManager(newRecordingHandler())
		require.NoError(t, err)
		defer manager.Shutdown()

		err = manager.CancelSchedule("never-issued")

		var invalid *InvalidScheduleIDError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "never-issued", invalid.ScheduleID)
	})

	t.Run("a schedule-then-cancel race never fires twice or crashes", func(t *testing.T) {
		handler := newRecordingHandler()
		manager, err := NewInMemoryManager(handler)
		require.NoError(t, err)
		defer manager.Shutdown()

		const rounds = 50
		for i := 0; i < rounds; i++ {
			scheduleID := manager.GenerateScheduleID()
			require.NoError(t, manager.ScheduleAfter(context.Background(), time.Millisecond,
				NewScopeDescriptor("saga", "s-1"), paymentDue{InvoiceID: manager.GenerateScheduleID()}, scheduleID))
			time.Sleep(time.Millisecond)
			require.NoError(t, manager.CancelSchedule(scheduleID))
		}

		// Give in-flight firings time to land; every deadline must have
		// resolved to fired or cancelled, never both.
		time.Sleep(100 * time.Millisecond)
		handler.mu.Lock()
		defer handler.mu.Unlock()
		assert.LessOrEqual(t, len(handler.fired), rounds)
		seen := make(map[string]bool)
		for _, msg := range handler.fired {
			payload, err := msg.Payload()
			require.NoError(t, err)
			invoiceID := payload.(paymentDue).InvoiceID
			assert.False(t, seen[invoiceID], "deadline fired twice")
			seen[invoiceID] = true
		}
	})
}

func TestScheduleHelpers(t *testing.T) {
	t.Run("Schedule generates an id and captures the scope from context", func(t *testing.T) {
		handler := newRecordingHandler()
		manager, err := NewInMemoryManager(handler)
		require.NoError(t, err)
		defer manager.Shutdown()
		scope := NewScopeDescriptor("aggregate", "order-9")
		ctx := WithScope(context.Background(), scope)

		scheduleID, err := Schedule(ctx, manager, time.Now().Add(5*time.Millisecond), paymentDue{})
		require.NoError(t, err)
		assert.NotEmpty(t, scheduleID)

		handler.waitForFire(t)
		assert.Equal(t, scope, handler.scopes[0])
	})

	t.Run("ScheduleIn without a scope falls back to the process scope", func(t *testing.T) {
		handler := newRecordingHandler()
		manager, err := NewInMemoryManager(handler)
		require.NoError(t, err)
		defer manager.Shutdown()

		_, err = ScheduleIn(context.Background(), manager, time.Millisecond, paymentDue{})
		require.NoError(t, err)

		handler.waitForFire(t)
		assert.Equal(t, "process", handler.scopes[0].ScopeType())
	})

	t.Run("the firing context carries the captured scope", func(t *testing.T) {
		fired := make(chan ScopeDescriptor, 1)
		handler := HandlerFunc(func(ctx context.Context, msg contracts.Message, scope ScopeDescriptor) error {
			if sd, ok := ScopeFromContext(ctx); ok {
				fired <- sd
			}
			return nil
		})
		manager, err := NewInMemoryManager(handler)
		require.NoError(t, err)
		defer manager.Shutdown()
		scope := NewScopeDescriptor("saga", "s-42")

		require.NoError(t, manager.ScheduleAfter(context.Background(), time.Millisecond,
			scope, paymentDue{}, manager.GenerateScheduleID()))

		select {
		case sd := <-fired:
			assert.Equal(t, scope, sd)
		case <-time.After(2 * time.Second):
			t.Fatal("deadline did not fire in time")
		}
	})
}
