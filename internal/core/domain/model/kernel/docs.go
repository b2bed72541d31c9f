// Package kernel provides the value objects shared by every aggregate of the order service.
//
// The package includes:
//   - UUID: identifier of orders, documents and workflow events
//   - Email: normalized customer and employee address
//   - Money: decimal amount with a currency and its minor-unit conversion
//   - Actor: the authenticated caller and its role
//   - Event: the base of every domain event raised by an aggregate
//
// Value objects are immutable and carry a constructor guard, so their zero values fail
// Validate and cannot leak into an aggregate.
package kernel
