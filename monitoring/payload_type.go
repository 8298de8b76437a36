package monitoring

import (
	"github.com/glimte/relay-go/contracts"
	"github.com/puzpuzpuz/xsync/v3"
)

// NameBuilder derives a monitor name from a payload type name.
type NameBuilder func(payloadType string) string

// PayloadTypeMonitor multiplexes one delegate monitor per distinct payload
// type. The first message of a type creates its monitor through the factory;
// every later message of that type reuses the stored instance. Entries are
// never evicted, so growth is bounded by the number of distinct payload
// types observed, not by message volume.
//
// Safe for concurrent use: racing ingestions for the same key still create
// exactly one monitor.
type PayloadTypeMonitor struct {
	factory  MonitorFactory
	nameOf   NameBuilder
	monitors *xsync.MapOf[string, MessageMonitor]
}

// PayloadTypeMonitorOption configures a PayloadTypeMonitor.
type PayloadTypeMonitorOption func(*PayloadTypeMonitor)

// WithNameBuilder overrides how monitor names are derived from payload
// types. The default uses the payload type name unchanged.
func WithNameBuilder(nameOf NameBuilder) PayloadTypeMonitorOption {
	return func(m *PayloadTypeMonitor) {
		m.nameOf = nameOf
	}
}

// NewPayloadTypeMonitor creates a multiplexer over the given factory.
func NewPayloadTypeMonitor(factory MonitorFactory, opts ...PayloadTypeMonitorOption) *PayloadTypeMonitor {
	m := &PayloadTypeMonitor{
		factory:  factory,
		nameOf:   func(payloadType string) string { return payloadType },
		monitors: xsync.NewMapOf[string, MessageMonitor](),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnMessageIngested routes the message to the monitor for its payload type,
// creating the monitor first if this is the first message of that type.
func (m *PayloadTypeMonitor) OnMessageIngested(msg contracts.Message) MonitorCallback {
	name := m.nameOf(msg.PayloadType())
	monitor, _ := m.monitors.LoadOrCompute(name, func() MessageMonitor {
		return m.factory(name)
	})
	return monitor.OnMessageIngested(msg)
}

// MonitorCount returns the number of distinct monitors created so far.
func (m *PayloadTypeMonitor) MonitorCount() int {
	return m.monitors.Size()
}

// Monitor returns the delegate monitor stored under the given name, if one
// was created.
func (m *PayloadTypeMonitor) Monitor(name string) (MessageMonitor, bool) {
	return m.monitors.Load(name)
}
