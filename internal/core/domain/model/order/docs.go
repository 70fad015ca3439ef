// Package order implements the order being built at a POS terminal: the cart
// of line items, its bindings (table, customer, waiter, delivery partner),
// discount, tip, payments and splits.
//
// Key rules:
//   - A line's quantity is at least 1; setting it to 0 or less removes the line.
//   - Only Pending lines may be merged, re-quantified, annotated or removed;
//     Dispatched lines are frozen.
//   - Lines carrying addons never merge; each becomes its own line.
//   - Totals are recomputed by billing.Calculate after every mutation.
//   - Status follows Open -> Settled, OnAccount or Cancelled; only Open orders
//     accept cart operations.
package order
