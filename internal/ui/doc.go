// Package ui provides styled terminal output for the contactform CLI.
//
// These components follow a "render once and print" pattern: the check and
// prompt commands use them to print a header, the confirmation table, field
// errors and result boxes. The interactive terminal form lives in
// internal/wizard/tui and has its own styles.
//
// # Components
//
//   - Header: command banner showing the command and its parameters
//   - Result: success, failure and warning boxes with ordered details
//   - Confirmation: the submitted-data table (Field / Value)
//   - Printer: writes the components to an io.Writer
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Contact form", "contactform check", []ui.Param{{Key: "Profile", Value: "classic"}})
//	p.PrintConfirmation(snapshot)
//
// # Logging Integration
//
// Logging is controlled via CONTACTFORM_LOG_LEVEL. When unset, zap logging
// is silent so the curated output is displayed cleanly.
package ui
