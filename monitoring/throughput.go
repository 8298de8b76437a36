package monitoring

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
	"github.com/glimte/relay-go/contracts"
)

// ThroughputMonitor is a MessageMonitor that counts ingestions and outcomes
// as VictoriaMetrics counters, labeled with the monitor name. Combined with
// PayloadTypeMonitor it yields one counter family per payload type.
type ThroughputMonitor struct {
	ingested *metrics.Counter
	success  *metrics.Counter
	failure  *metrics.Counter
	ignored  *metrics.Counter
}

// NewThroughputMonitor creates a monitor registering its counters in the
// given metrics set under the given name.
func NewThroughputMonitor(name string, set *metrics.Set) *ThroughputMonitor {
	counter := func(metric string) *metrics.Counter {
		return set.GetOrCreateCounter(fmt.Sprintf(`relay_messages_%s_total{monitor=%q}`, metric, name))
	}
	return &ThroughputMonitor{
		ingested: counter("ingested"),
		success:  counter("success"),
		failure:  counter("failure"),
		ignored:  counter("ignored"),
	}
}

// ThroughputMonitorFactory returns a MonitorFactory producing
// ThroughputMonitors in the given metrics set, for use with
// NewPayloadTypeMonitor.
func ThroughputMonitorFactory(set *metrics.Set) MonitorFactory {
	return func(name string) MessageMonitor {
		return NewThroughputMonitor(name, set)
	}
}

// OnMessageIngested counts the ingestion and returns a callback that counts
// the outcome.
func (m *ThroughputMonitor) OnMessageIngested(msg contracts.Message) MonitorCallback {
	m.ingested.Inc()
	return &throughputCallback{monitor: m}
}

// Ingested returns the number of messages this monitor has observed.
func (m *ThroughputMonitor) Ingested() uint64 {
	return m.ingested.Get()
}

type throughputCallback struct {
	monitor *ThroughputMonitor
}

func (c *throughputCallback) ReportSuccess() {
	c.monitor.success.Inc()
}

func (c *throughputCallback) ReportFailure(err error) {
	c.monitor.failure.Inc()
}

func (c *throughputCallback) ReportIgnored() {
	c.monitor.ignored.Inc()
}
