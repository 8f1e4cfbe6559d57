// Package dispatchers drives the fulfillment side effects of a status change:
// completing manufacturing orders when an order enters production and validating
// deliveries when it is ready to ship.
//
// Dispatchers work on the collaborators of the caller's unit of work and stop at
// the first failure. Work finished before the failure is kept.
package dispatchers
