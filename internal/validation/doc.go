// Package validation provides the field validators used by contactform.
//
// Every validator is a pure, synchronous function that maps a field's raw
// value to an error message. An empty message means the value is valid.
// Validators are run on every change to a field and again when the form
// is submitted, so they must be cheap and free of side effects.
//
// # Validators
//
//   - NoSpecialChars: rejects any of ! @ # $ % ^ & * ( ) _ + \ | } ] { [ : " > < ? ' ; ~ `
//   - RequiredText: rejects values that are blank after trimming
//   - Email: requires the local@domain.tld shape
//   - Password: 6-16 characters, at least one digit and one of !@#$%^&*
//
// # Usage Example
//
//	if msg := validation.Email("a@b"); msg != "" {
//	    fmt.Println(msg) // Invalid Email
//	}
//
// Validators that need to be attached to a field use the Func type, and
// Check converts a message into a *FieldError for callers that prefer
// error values:
//
//	err := validation.Check("emailInput", validation.Email, "a@b")
//	if validation.IsFieldError(err) {
//	    ...
//	}
package validation
