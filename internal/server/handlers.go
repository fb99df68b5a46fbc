package server

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/submission"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// fieldView is one input as rendered by the page template
type fieldView struct {
	form.Field
	Kind    string
	Value   string
	Checked bool
	Error   string
}

// pageData is the page template's model
type pageData struct {
	Profile      form.Profile
	Profiles     []string
	Fields       []fieldView
	State        string
	Notice       form.Notice
	AlertMillis  int64
	Errors       []string
	Confirmation *form.Snapshot
	WSPath       string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderProfile(w, r, s.config.DefaultProfile)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.renderProfile(w, r, chi.URLParam(r, "profile"))
}

func (s *Server) renderProfile(w http.ResponseWriter, r *http.Request, name string) {
	p, err := form.Lookup(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	sess, err := s.newSession(p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sess.Close()

	s.renderPage(w, http.StatusOK, sess)
}

// handleSubmit is the form fallback for browsers without JavaScript. It
// runs one submission in a throwaway session and re-renders the page.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	p, err := form.Lookup(chi.URLParam(r, "profile"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	sess, err := s.newSession(p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sess.Close()

	for _, f := range p.Fields {
		raw := r.PostForm.Get(f.Name)
		// Unchecked radios send nothing; leave the initial value in place
		if f.Kind.HasOptions() && !f.HasOption(raw) && raw == "" {
			continue
		}
		msg, err := sess.Change(f.Name, raw)
		if err != nil {
			logging.Warn("Rejected form value",
				zap.String("profile", p.Name),
				zap.String("field", f.Name),
				zap.Error(err),
			)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if msg != "" {
			s.metrics.recordValidationFailure(p.Name, f.Name)
		}
	}

	status := http.StatusOK
	if err := s.submit(r, sess); err != nil {
		status = http.StatusUnprocessableEntity
		if !form.IsSubmitError(err) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
	}
	s.renderPage(w, status, sess)
}

// submit runs a submission and, for simulated profiles, waits for the
// outcome within the request's lifetime.
func (s *Server) submit(r *http.Request, sess *form.Session) error {
	name := sess.Profile().Name
	err := sess.Submit(r.Context())

	var serr *form.SubmitError
	if errors.As(err, &serr) {
		s.recordRejection(name, serr)
		return err
	}
	if err != nil {
		return err
	}

	state, err := sess.Await(r.Context())
	if err != nil {
		return err
	}
	switch state {
	case submission.StateSucceeded:
		snap, _ := sess.Confirmation()
		s.recordSuccess(name, snap)
	case submission.StateFailed:
		s.metrics.recordSubmission(name, OutcomeFailed)
	}
	return nil
}

func (s *Server) recordRejection(profile string, serr *form.SubmitError) {
	switch serr.Kind {
	case form.ErrUnfilled:
		s.metrics.recordSubmission(profile, OutcomeUnfilled)
	case form.ErrInvalid:
		s.metrics.recordSubmission(profile, OutcomeInvalid)
		for name := range serr.Errors {
			s.metrics.recordValidationFailure(profile, name)
		}
	}
}

func (s *Server) renderPage(w http.ResponseWriter, status int, sess *form.Session) {
	p := sess.Profile()
	errs := sess.Errors()

	data := pageData{
		Profile:     p,
		Profiles:    form.Names(),
		State:       sess.State().String(),
		Notice:      sess.Notice(),
		AlertMillis: sess.AlertDuration().Milliseconds(),
		WSPath:      "/forms/" + p.Name + "/ws",
	}
	for _, name := range errs.Names() {
		data.Errors = append(data.Errors, errs[name])
	}
	for _, f := range sess.Fields() {
		v, _ := sess.Value(f.Name)
		data.Fields = append(data.Fields, fieldView{
			Field:   f,
			Kind:    f.Kind.String(),
			Value:   v.Text(),
			Checked: v.Bool(),
			Error:   errs[f.Name],
		})
	}
	if snap, ok := sess.Confirmation(); ok {
		data.Confirmation = &snap
	}

	var buf strings.Builder
	if err := s.tmpl.ExecuteTemplate(&buf, "form.html", data); err != nil {
		logging.Error("Failed to render form page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}
