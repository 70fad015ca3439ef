// Package kernel holds the value objects shared by every aggregate of the POS
// core: identifiers (UUID) and money helpers over shopspring/decimal.
//
// Money is carried as decimal.Decimal throughout the domain so that billing is
// exact; rounding to currency precision happens only at the rendering edge.
// Comparisons that decide whether an order is paid use CurrencyEpsilon.
package kernel
