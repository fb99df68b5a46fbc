package server

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/logging"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		markupPolicy = bluemonday.StrictPolicy()
	})
	return markupPolicy
}

// hasMarkup reports whether the strict policy would change v beyond escaping
func hasMarkup(v string) bool {
	return html.UnescapeString(strictPolicy().Sanitize(v)) != v
}

// markupFields returns the names of snapshot rows whose value carries markup.
// Values are echoed unchanged. The template and the page script escape them
// on output.
func markupFields(snap form.Snapshot) []string {
	var names []string
	for _, row := range snap.Rows {
		if hasMarkup(row.Value) {
			names = append(names, row.Name)
		}
	}
	return names
}

// recordSuccess counts a succeeded submission and flags values carrying markup
func (s *Server) recordSuccess(profile string, snap form.Snapshot) {
	s.metrics.recordSubmission(profile, OutcomeSucceeded)
	for _, name := range markupFields(snap) {
		s.metrics.recordMarkup(profile, name)
		logging.Warn("Submitted value contains markup",
			zap.String("profile", profile),
			zap.String("field", name),
		)
	}
}
