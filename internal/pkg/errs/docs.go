// Package errs provides the typed errors shared by the storefront order service.
//
// Every error type pairs with a sentinel so callers can branch with errors.Is
// while still reading structured details with errors.As:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value failed validation (e.g. an unknown order status token)
//   - ValueIsOutOfRangeError: a value is outside its allowed bounds
//   - ObjectNotFoundError: a lookup by identifier found nothing
//   - VersionIsInvalidError: an optimistic lock check failed on write
//   - TransitionIsIllegalError: a state machine rejected a change between two known states
//
// Constructors come in two flavours, with and without a cause. Error() renders the
// cause in parentheses and Unwrap() always yields the sentinel.
package errs
