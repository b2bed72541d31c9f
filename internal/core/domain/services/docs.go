// Package services provides domain services whose rules span more than one aggregate.
//
// The package includes:
//   - AccessPolicy: capability checks run at the start of every operation
//   - OrderAssigner: assigns an order to an active employee
package services
