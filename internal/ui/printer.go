package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muurk/contactform/internal/form"
)

// Printer provides methods for printing UI components to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params []Param) {
	p.Println(NewHeader(title, command, params).SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details []Param) {
	p.Println(NewSuccessResult(title, details).SetWidth(p.width).Render())
}

// PrintError prints an error result box with hints
func (p *Printer) PrintError(title string, err error, hints []string) {
	p.Println(NewFailureResult(title, err, hints).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details []Param) {
	p.Println(NewWarningResult(title, details).SetWidth(p.width).Render())
}

// PrintConfirmation prints the submitted-data table
func (p *Printer) PrintConfirmation(snap form.Snapshot) {
	p.Println(RenderConfirmation(snap, p.width))
}

// PrintFieldErrors prints field errors in a failure box
func (p *Printer) PrintFieldErrors(title string, errs form.Errors, fields []form.Field) {
	p.Println(RenderFieldErrors(title, errs, FieldLabels(fields), p.width))
}

// PrintNotice prints an alert or failure banner
func (p *Printer) PrintNotice(n form.Notice) {
	if line := RenderNotice(n); line != "" {
		p.Println(line)
	}
}
