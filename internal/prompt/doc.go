// Package prompt fills a contact form one question at a time.
//
// It is the plain-terminal rendition for shells where a full-screen
// interface is unwelcome. A
// Runner asks each field through a Driver, records the answers in a
// form.Session and submits it:
//
//	r := prompt.NewRunner(prompt.NewSurveyDriver(), ui.NewPrinter(os.Stdout))
//	snap, err := r.Run(ctx, sess)
//
// The survey driver re-asks while an answer fails the field validator.
// Fields rejected on submit are asked again, and a failed simulated
// submission offers a retry. Ctrl+C surfaces as ErrAborted.
package prompt
