// Package services provides domain services that work across the order and
// kitchen aggregates.
//
// The package includes:
//   - TicketDispatcher: turns the pending lines of an order into a kitchen ticket
//   - SettlementEngine: records payments and splits and decides whether an order is paid
//
// Both services are stateless. They validate everything before touching an
// aggregate, so a failed call leaves the order unchanged.
package services
