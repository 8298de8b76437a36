// Package monitoring observes messages around the dispatch path.
// MessageMonitor is the sink contract; PayloadTypeMonitor multiplexes one
// delegate monitor per distinct payload type, and ThroughputMonitor is a
// counter-based delegate built on VictoriaMetrics.
package monitoring
