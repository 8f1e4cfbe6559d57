// Package errs provides standardized error types for the CRM sync service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used by validation, the order lifecycle and the fulfillment adapters.
//
// The package includes several error types:
//   - ValueIsRequiredError / MissingValuesError: one or several required values are missing
//   - ValueIsInvalidError: a value has the wrong type or an unsupported content
//   - ValueIsOutOfRangeError: a numeric value is outside its allowed bounds
//   - ReferenceNotFoundError: a supplied identifier does not resolve to reference data
//   - ObjectNotFoundError: an aggregate cannot be found
//   - DownstreamRejectedError: a fulfillment collaborator refused an operation
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
package errs
