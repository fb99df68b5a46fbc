// Package form holds the form model shared by every front end.
//
// A Profile declares the fields of one form: their kind, label, options,
// required rule and validator. A Session is one user's live copy of a
// profile: a Registry of current values, the per-field error state, the
// submission controller and the transient notices (alert, failure banner)
// the front ends render.
//
// # Change Handling
//
// Session.Change converts the raw input for the field's kind, updates only
// that key of the registry and re-runs only that field's validator. Select
// and radio values must be declared options; anything else is rejected and
// the session is left unchanged.
//
// # Submission
//
// Session.Submit checks the required rules. In the classic profile an
// unfilled field raises a short-lived alert and a filled form is accepted
// even with field errors showing. In the async profile every validator runs
// again and failures are reported as field errors. A valid
// submission is handed to the submission controller, and a Snapshot of the
// registry is taken when it succeeds.
//
// # Thread Safety
//
// Session methods are safe for concurrent use. Listeners registered with
// OnUpdate run outside the session lock.
package form
