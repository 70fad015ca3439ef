// Package errs provides the error types shared by the POS core.
//
// Every type follows the same shape: a sentinel error, a struct carrying the
// details, constructors with and without a cause, Error and Unwrap. Callers
// classify errors with errors.Is against the sentinels, or with the family
// helpers:
//   - IsValidation: ErrValueIsRequired, ErrValueIsInvalid, ErrValueIsOutOfRange, ErrVersionIsInvalid
//   - IsState: ErrInvalidState (an operation the aggregate's state forbids)
//   - IsBalance: ErrBalanceMismatch (splits or payments that do not reconcile)
package errs
