// Package order provides the Order aggregate and the order status policy of the
// storefront.
//
// The package includes:
//   - Status: the closed set of order statuses with the rules deciding which
//     changes are legal (final statuses, cancellable statuses) and their labels
//     in English, Japanese and Vietnamese
//   - Item: one order line captured at checkout
//   - Order: the aggregate root whose status only changes through the policy
//   - StatusChanged: the domain event recorded for every status change
//
// Key business rules:
//   - New orders start as pending
//   - delivered and cancelled are final; nothing moves out of them
//   - Any other status may be updated to any valid status
//   - Customers may cancel only pending or processing orders
package order
