// Package kernel holds the value objects shared by every aggregate of the
// storefront order service. Today that is UUID, the identifier used for orders,
// customers and products.
package kernel
