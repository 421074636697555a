package order

import (
	"fmt"

	"storefront/internal/pkg/errs"
)

// Status is the lifecycle state of an order. The set is closed: only the five
// named constants are valid, and values from outside (HTTP input, database
// rows) enter through ParseStatus so an unrecognized token never reaches the
// transition rules.
//
// Transitions:
//
//	pending ────┐
//	processing ─┼──> any status     (general update)
//	shipped ────┘
//	delivered ──x                   (final)
//	cancelled ──x                   (final)
//
//	pending | processing ──> cancelled   (Cancel)
//	shipped ──x                          (Cancel)
type Status int

const (
	// Unknown is the zero value and never a valid status.
	Unknown Status = iota

	// Pending is the status of a freshly checked out order.
	Pending

	// Processing means the shop has accepted the order and is preparing it.
	Processing

	// Shipped means the parcel has left the warehouse. It can no longer be
	// cancelled by the customer but may still be corrected by an admin.
	Shipped

	// Delivered is final.
	Delivered

	// Cancelled is final.
	Cancelled
)

const unknownToken = "unknown"

// tokens maps statuses to their canonical wire and storage form.
var tokens = map[Status]string{
	Pending:    "pending",
	Processing: "processing",
	Shipped:    "shipped",
	Delivered:  "delivered",
	Cancelled:  "cancelled",
}

var statusesByToken = func() map[string]Status {
	m := make(map[string]Status, len(tokens))
	for s, token := range tokens {
		m[token] = s
	}
	return m
}()

// Statuses returns every valid status in canonical order. The slice is a new
// copy on each call and may be modified by the caller.
func Statuses() []Status {
	return []Status{Pending, Processing, Shipped, Delivered, Cancelled}
}

// Tokens returns the canonical tokens of Statuses, in the same order. It is
// meant for validation allow-lists ("must be one of ...").
func Tokens() []string {
	statuses := Statuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

// IsValidStatus reports whether value is exactly one of the canonical tokens.
// Matching is case-sensitive and nothing is trimmed: "Pending" and " pending"
// are both invalid.
func IsValidStatus(value string) bool {
	_, ok := statusesByToken[value]
	return ok
}

// ParseStatus converts a canonical token into a Status.
//
// Returns:
//   - (status, nil) for one of the five tokens
//   - (Unknown, *errs.ValueIsInvalidError) for anything else
func ParseStatus(value string) (Status, error) {
	s, ok := statusesByToken[value]
	if !ok {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%q is not a valid status", value),
		)
	}
	return s, nil
}

// Validate returns *errs.ValueIsInvalidError unless s is one of the five statuses.
func (s Status) Validate() error {
	if _, ok := tokens[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical token, or "unknown" for invalid values.
func (s Status) String() string {
	if token, ok := tokens[s]; ok {
		return token
	}
	return unknownToken
}

// MarshalText encodes the status as its canonical token.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a canonical token.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsCancellable reports whether Cancel is allowed from s.
func (s Status) IsCancellable() bool {
	return s == Pending || s == Processing
}

// IsFinal reports whether s is a terminal status.
func (s Status) IsFinal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether a general status update from s to requested
// is allowed. A final status never moves, not even to itself. Any other valid
// status may move to any valid status; no forward ordering is enforced.
func (s Status) CanTransitionTo(requested Status) bool {
	if s.Validate() != nil || requested.Validate() != nil {
		return false
	}
	return !s.IsFinal()
}

// TransitionTo performs a checked general status update.
//
// Returns:
//   - (requested, nil) when CanTransitionTo allows it
//   - (Unknown, *errs.ValueIsInvalidError) when either side is not a valid status
//   - (Unknown, *errs.TransitionIsIllegalError) when s is final
func (s Status) TransitionTo(requested Status) (Status, error) {
	if err := requested.Validate(); err != nil {
		return Unknown, err
	}
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(requested) {
		return Unknown, s.illegal(requested)
	}
	return requested, nil
}

// Cancel transitions s to Cancelled.
//
// Returns:
//   - (Cancelled, nil) from Pending or Processing
//   - (Unknown, *errs.TransitionIsIllegalError) from Shipped, Delivered or Cancelled
//   - (Unknown, *errs.ValueIsInvalidError) when s is not a valid status
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if !s.IsCancellable() {
		return Unknown, s.illegal(Cancelled)
	}
	return Cancelled, nil
}

func (s Status) illegal(requested Status) error {
	return errs.NewTransitionIsIllegalError("order status", s.String(), requested.String())
}
