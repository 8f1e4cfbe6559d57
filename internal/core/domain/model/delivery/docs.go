// Package delivery models outgoing delivery orders of a sales order.
package delivery
