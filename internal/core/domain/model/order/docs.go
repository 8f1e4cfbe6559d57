// Package order provides the sales order aggregate synchronized from the CRM.
//
// The package includes:
//   - Order: the aggregate root holding the header, the ordered lines, the current
//     CRM status and the append-only status history
//   - Line: an ordered product with a snapshot of its name and unit of measure
//   - Status: a CRM status as defined by reference data (code + display name)
//   - HistoryEntry: one applied status with its timestamp
//   - StatusChanged: the domain event raised on every status application
//
// Key business rules:
//   - Orders are created in the Draft state and move to Sale once confirmed downstream
//   - Every status application appends exactly one history entry, re-applying the
//     same status included
//   - After any status application the current status equals the latest history entry
//   - Lines are fixed once the order is persisted
package order
