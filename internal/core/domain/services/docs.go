// Package services provides domain services for business rules spanning more than
// one aggregate.
//
// The package includes:
//   - ProductionPlanner: matches manufacturing orders of a sales order with the
//     production requests sent by the CRM
package services
