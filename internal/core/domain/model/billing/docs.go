// Package billing computes order totals.
//
// Calculate is a pure function of (lines, discount, tax schedule, tip):
//
//	subtotal   = Σ unitPrice × quantity            (every line, dispatched or not)
//	discount   = fixed:      min(value, subtotal)
//	             percentage: subtotal × value / 100, clamped to [0, subtotal]
//	taxLine_i  = rate_i% × (subtotal − discount)   (parallel, never cascaded)
//	grandTotal = subtotal − discount + Σ taxLine_i + tip
//
// No rounding happens here; amounts are exact decimals and are rounded to
// currency precision only when rendered.
package billing
