// Package submission implements the form's submission controller.
//
// The controller gates the move from editing to a submitted state. It runs
// in one of two modes:
//
//   - ModeImmediate: a valid submission is confirmed straight away. There is
//     no pending phase and no failure outcome.
//   - ModeSimulated: a valid submission goes Pending, waits a fixed delay
//     and then resolves to Succeeded with probability SuccessRate, or to
//     Failed otherwise. This stands in for a real network call and keeps the
//     same pending/success/failure contract a real backend would have.
//
// # State Machine
//
//	Editing   --submit-->   Pending    (simulated)
//	Editing   --confirm-->  Succeeded  (immediate)
//	Editing   --reject-->   Editing    (invalid submission)
//	Pending   --submit-->   Pending    (supersedes the pending resolution)
//	Pending   --confirm-->  Succeeded
//	Pending   --fail-->     Failed
//	Pending   --cancel-->   Editing    (context cancelled)
//	Succeeded --dismiss-->  Editing
//	Failed    --dismiss-->  Editing
//
// Transition is a pure function over this table. The Controller wraps it
// with the timer, the random outcome and observer notification.
//
// # Cancellation
//
// The deferred resolution is tied to the context passed to Submit and to the
// controller's own lifetime. It is dropped when the context is cancelled,
// when Close is called, or when a newer Submit supersedes it. A stale
// resolution never changes state.
//
// # Thread Safety
//
// Controller methods are safe for concurrent use. Listeners run outside the
// controller's lock, in the goroutine that caused the transition.
package submission
