// Package guard provides ConstructorGuard, a marker embedded in commands, queries and
// value objects to tell instances built by their constructor from zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when the guard is
// a zero value and no specific error was supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the owning value went through its constructor.
//
// Example:
//
//	var ErrStatusUpdateNotConstructed = errors.New("UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand")
//
//	type UpdateOrderStatusCommand struct {
//	    status order.Status
//	    guard  guard.ConstructorGuard
//	}
//
//	func (c UpdateOrderStatusCommand) Validate() error {
//	    return c.guard.Validate(ErrStatusUpdateNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
