// Package contracts defines the message abstractions exchanged with the
// broker:
//   - Message: base contract with identifier, payload, and metadata
//   - CommandMessage: an action to be performed
//   - QueryMessage: a request for information plus its expected result shape
//   - EventMessage: a notification that something has happened
//
// All message types are immutable; metadata-changing operations return new
// instances. Generic* types carry payloads materialized in-process, while the
// wire package provides envelope-backed counterparts that deserialize lazily.
package contracts
