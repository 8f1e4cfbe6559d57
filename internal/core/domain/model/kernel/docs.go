// Package kernel provides core domain primitives shared by the order, manufacturing
// and delivery models.
//
// The package includes:
//   - ID: a positive integer identifier as issued by the CRM and the fulfillment backend
//   - UUID: a value object for identifiers generated by this service (domain events)
//   - DomainEvent: the contract aggregates use to expose events raised by their behavior
//
// These primitives are immutable and safe for concurrent use.
package kernel
