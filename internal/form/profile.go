package form

import (
	"fmt"
	"sort"
	"time"

	"github.com/muurk/contactform/internal/submission"
	"github.com/muurk/contactform/internal/validation"
)

// Profile names
const (
	ProfileClassic = "classic"
	ProfileAsync   = "async"
)

// DefaultProfile is used when no profile is configured
const DefaultProfile = ProfileClassic

// Notice texts
const (
	AlertUnfilled     = "Fill all the Fields Before submitting"
	FailureMessage    = "Form submission failed. Please try again."
	ConfirmationTitle = "Form submitted successfully!"
)

// DefaultAlertDuration is how long the unfilled-fields alert stays up
const DefaultAlertDuration = time.Second

// Profile is a named form configuration
type Profile struct {
	Name        string
	Title       string
	Description string
	Fields      []Field
	Mode        submission.Mode

	// AlertOnUnfilled makes an unfilled required field raise the alert
	// instead of a per-field error.
	AlertOnUnfilled bool
}

// Field returns the descriptor of the named field
func (p Profile) Field(name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Classic returns the synchronous contact form: every text field, the
// country and the gender are required and any blank one blocks submission
// with a short alert.
func Classic() Profile {
	return Profile{
		Name:            ProfileClassic,
		Title:           "Contact form",
		Description:     "All fields are required. Submission is confirmed immediately.",
		Mode:            submission.ModeImmediate,
		AlertOnUnfilled: true,
		Fields: []Field{
			{Name: "textInput", Label: "Name", Kind: KindText, Required: RequireNonEmpty, Validate: validation.NoSpecialChars},
			{Name: "emailInput", Label: "Email", Kind: KindEmail, Required: RequireNonEmpty, Validate: validation.Email},
			{Name: "passwordInput", Label: "Password", Kind: KindPassword, Required: RequireNonEmpty, Validate: validation.Password},
			{Name: "textareaInput", Label: "Comments", Kind: KindTextarea, Required: RequireNonEmpty},
			{
				Name: "selectInput", Label: "Country", Kind: KindSelect, Required: RequireOption,
				Options: []Option{
					{Value: "", Label: "Other"},
					{Value: "option1", Label: "Albania"},
					{Value: "option2", Label: "Kynea"},
					{Value: "option3", Label: "Canada"},
				},
			},
			{
				Name: "genderInput", Label: "Gender", Kind: KindRadio, Required: RequireOption,
				Options: []Option{
					{Value: "Male", Label: "Male"},
					{Value: "Female", Label: "Female"},
				},
			},
			{Name: "humanInput", Label: "Human", Kind: KindCheckbox, Required: RequirePresence},
			{Name: "aiInput", Label: "AI", Kind: KindCheckbox, Required: RequirePresence},
		},
	}
}

// Async returns the form with a simulated network submission. Only the
// text input and the email are checked on submit.
func Async() Profile {
	return Profile{
		Name:        ProfileAsync,
		Title:       "Async form",
		Description: "Submission takes a moment and can fail. Retry after a failure.",
		Mode:        submission.ModeSimulated,
		Fields: []Field{
			{Name: "textInput", Label: "Text Input", Kind: KindText, Required: RequireNonBlank, Validate: validation.RequiredText, Placeholder: "Enter text"},
			{Name: "emailInput", Label: "Email Input", Kind: KindEmail, Validate: validation.Email, Placeholder: "name@example.com"},
			{Name: "textareaInput", Label: "Textarea", Kind: KindTextarea},
			{
				Name: "selectInput", Label: "Select", Kind: KindSelect, Default: "option1",
				Options: []Option{
					{Value: "option1", Label: "Option 1"},
					{Value: "option2", Label: "Option 2"},
					{Value: "option3", Label: "Option 3"},
				},
			},
			{
				Name: "radioInput", Label: "Radio", Kind: KindRadio, Default: "option1",
				Options: []Option{
					{Value: "option1", Label: "Option 1"},
					{Value: "option2", Label: "Option 2"},
				},
			},
			{Name: "checkboxInput", Label: "Checkbox", Kind: KindCheckbox, Required: RequirePresence, Help: "Check me out"},
		},
	}
}

var profiles = map[string]func() Profile{
	ProfileClassic: Classic,
	ProfileAsync:   Async,
}

// Lookup returns the named profile
func Lookup(name string) (Profile, error) {
	build, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (available: %v)", ErrUnknownProfile, name, Names())
	}
	return build(), nil
}

// Names returns the available profile names, sorted
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
