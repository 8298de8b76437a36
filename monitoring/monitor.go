package monitoring

import (
	"github.com/glimte/relay-go/contracts"
)

// MonitorCallback reports the outcome of handling one ingested message.
// Exactly one of the three methods should be called per ingestion.
type MonitorCallback interface {
	// ReportSuccess marks the message as handled successfully.
	ReportSuccess()

	// ReportFailure marks the message as failed with the given cause.
	ReportFailure(err error)

	// ReportIgnored marks the message as deliberately not handled.
	ReportIgnored()
}

// MessageMonitor observes the lifecycle of ingested messages. OnMessageIngested
// is called once per message entering the dispatch path; the returned
// callback reports how handling ended.
type MessageMonitor interface {
	OnMessageIngested(msg contracts.Message) MonitorCallback
}

// MonitorFactory creates a monitor for a given name, typically a metric name
// derived from a payload type.
type MonitorFactory func(name string) MessageMonitor

// NoOpMessageMonitor is a MessageMonitor that records nothing.
type NoOpMessageMonitor struct{}

// OnMessageIngested returns a callback that discards all reports.
func (NoOpMessageMonitor) OnMessageIngested(msg contracts.Message) MonitorCallback {
	return NoOpCallback{}
}

// NoOpCallback discards all reports.
type NoOpCallback struct{}

// ReportSuccess does nothing.
func (NoOpCallback) ReportSuccess() {}

// ReportFailure does nothing.
func (NoOpCallback) ReportFailure(err error) {}

// ReportIgnored does nothing.
func (NoOpCallback) ReportIgnored() {}
