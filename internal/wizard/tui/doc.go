// Package tui implements the full-screen terminal rendition of the contact
// forms.
//
// Built on Bubble Tea, it follows the Elm architecture: the models hold all
// state, Update returns the next model plus commands and View is a pure
// function of the model. The form state itself lives in a form.Session, so
// the terminal, the browser and the line prompts share one set of rules.
//
// # Screens
//
//   - Profiles: pick the classic or async form (skipped when a profile is given)
//   - Form: edit fields with live validation and submit
//
// The confirmation table and the failure banner are modals drawn over the
// form. All screens use RenderApplicationContainer for the header, content
// and context-sensitive footer.
//
// # Key Bindings
//
//   - Tab/Shift+Tab, ↑/↓: move between fields (Tab only inside the textarea)
//   - ←/→: cycle select and radio options
//   - Space: toggle a checkbox
//   - Enter: submit (Ctrl+S inside the textarea, where Enter adds a line)
//   - Esc: close the confirmation or failure modal, or the unfilled alert
//   - Enter on the failure modal: retry
//   - Ctrl+C: quit
//
// # Asynchronous Submissions
//
// A simulated submission resolves on its own goroutine. The session's
// transition listener forwards each transition over a buffered channel that
// a tea.Cmd drains, so the model is only ever updated inside the event
// loop. While a submission is pending a spinner runs beside the form.
//
// # Usage Example
//
//	snap, err := tui.Run(ctx, "async", settings.SessionOptions())
//	if err != nil {
//	    return err
//	}
//	if snap != nil {
//	    printer.PrintConfirmation(*snap)
//	}
package tui
