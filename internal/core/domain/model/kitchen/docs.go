// Package kitchen models the tickets shown on the kitchen board.
//
// A ticket freezes the lines of one dispatch. Its lifecycle:
//
//	New ──start──> InProgress ──markReady──> Ready ──serve──> Served
//	 │                 ▲  │                    │
//	 └──hold──> OnHold ┘  └──hold──> OnHold    └──recall──> InProgress
//
// MarkReady is guarded by the checklist: every line and every addon of a
// line must be checked first. An incomplete checklist is not an error; the
// transition is simply not taken.
package kitchen
