package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/submission"
	"github.com/muurk/contactform/internal/ui"
)

// Messages for async operations
type transitionMsg struct {
	transition form.Transition
}

type alertExpiredMsg struct {
	seq int
}

// transitionBridge carries session transitions, which may fire on the
// submission goroutine, into the Bubble Tea event loop.
type transitionBridge struct {
	events chan form.Transition
	done   chan struct{}
	once   sync.Once
}

func newTransitionBridge() *transitionBridge {
	return &transitionBridge{
		events: make(chan form.Transition, 16),
		done:   make(chan struct{}),
	}
}

// push never blocks. A dropped transition only delays a redraw: the view
// reads the session state directly.
func (b *transitionBridge) push(t form.Transition) {
	select {
	case <-b.done:
	case b.events <- t:
	default:
	}
}

func (b *transitionBridge) wait() tea.Msg {
	select {
	case t := <-b.events:
		return transitionMsg{transition: t}
	case <-b.done:
		return nil
	}
}

func (b *transitionBridge) close() {
	b.once.Do(func() { close(b.done) })
}

// fieldWidget is the editor for one form field
type fieldWidget struct {
	field  form.Field
	input  textinput.Model // text, email, password
	area   textarea.Model  // textarea
	option int             // select and radio; -1 when no option is chosen
}

func (w fieldWidget) isText() bool {
	switch w.field.Kind {
	case form.KindText, form.KindEmail, form.KindPassword:
		return true
	}
	return false
}

// FormModel is the terminal rendition of a form session
type FormModel struct {
	ctx     context.Context
	session *form.Session
	bridge  *transitionBridge

	widgets []fieldWidget
	focus   int

	alertSeq int
	err      error

	Width  int
	Height int

	spinner   spinner.Model
	help      help.Model
	keys      formKeyMap
	modalKeys modalKeyMap
}

// NewFormModel creates a model editing sess. Submissions run under ctx.
func NewFormModel(ctx context.Context, sess *form.Session) FormModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := FormModel{
		ctx:       ctx,
		session:   sess,
		bridge:    newTransitionBridge(),
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		spinner:   s,
		help:      help.New(),
		keys:      newFormKeyMap(),
		modalKeys: newModalKeyMap(),
	}
	sess.OnTransition(m.bridge.push)

	for _, f := range sess.Fields() {
		v, _ := sess.Value(f.Name)
		w := fieldWidget{field: f, option: -1}
		switch {
		case w.isText():
			w.input = textinput.New()
			w.input.Placeholder = f.Placeholder
			w.input.Width = inputWidth
			w.input.Prompt = ""
			if f.Kind == form.KindPassword {
				w.input.EchoMode = textinput.EchoPassword
				w.input.EchoCharacter = '•'
			}
			w.input.SetValue(v.Text())
		case f.Kind == form.KindTextarea:
			w.area = textarea.New()
			w.area.Placeholder = f.Placeholder
			w.area.ShowLineNumbers = false
			w.area.SetWidth(inputWidth)
			w.area.SetHeight(3)
			w.area.SetValue(v.Text())
		case f.Kind.HasOptions():
			w.option = optionIndex(f, v.Text())
		}
		m.widgets = append(m.widgets, w)
	}
	m.focusWidget(0)
	return m
}

func optionIndex(f form.Field, value string) int {
	for i, o := range f.Options {
		if o.Value == value {
			return i
		}
	}
	return -1
}

// Session returns the session being edited
func (m FormModel) Session() *form.Session {
	return m.session
}

// Close stops delivering transitions to the model
func (m FormModel) Close() {
	m.bridge.close()
}

// Init starts listening for session transitions
func (m FormModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.bridge.wait)
}

// Update handles input and session events
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case transitionMsg:
		return m, m.bridge.wait

	case alertExpiredMsg:
		if msg.seq == m.alertSeq {
			m.session.DismissAlert()
		}
		return m, nil

	case spinner.TickMsg:
		if m.session.State() != submission.StatePending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.Close()
			return m, tea.Quit
		}
		switch m.session.State() {
		case submission.StateSucceeded, submission.StateFailed:
			return m.updateModal(msg)
		}
		return m.updateForm(msg)
	}

	return m.updateFocused(msg)
}

// updateModal handles keys while the confirmation or failure modal is open
func (m FormModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.modalKeys.Dismiss):
		m.dismiss()
	case key.Matches(msg, m.modalKeys.Retry):
		if m.session.State() == submission.StateFailed {
			return m.submit()
		}
		m.dismiss()
	}
	return m, nil
}

func (m *FormModel) dismiss() {
	if err := m.session.Dismiss(); err != nil && !errors.Is(err, submission.ErrInvalidTransition) {
		m.err = err
	}
}

func (m FormModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	w := m.widgets[m.focus]
	inArea := w.field.Kind == form.KindTextarea

	switch {
	case key.Matches(msg, m.keys.Dismiss):
		m.session.DismissAlert()
		return m, nil

	case msg.String() == "tab" || msg.String() == "shift+tab",
		!inArea && key.Matches(msg, m.keys.Next, m.keys.Prev):
		step := 1
		if key.Matches(msg, m.keys.Prev) {
			step = -1
		}
		return m, m.focusWidget((m.focus + step + len(m.widgets)) % len(m.widgets))

	case key.Matches(msg, m.keys.Submit) && !(inArea && msg.String() == "enter"):
		return m.submit()

	case w.field.Kind.HasOptions() && key.Matches(msg, m.keys.Left):
		return m, m.cycleOption(-1)

	case w.field.Kind.HasOptions() && key.Matches(msg, m.keys.Right, m.keys.Toggle):
		return m, m.cycleOption(1)

	case w.field.Kind.IsBool() && key.Matches(msg, m.keys.Toggle):
		if _, err := m.session.Toggle(w.field.Name); err != nil {
			m.err = err
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused text widget and records any
// change in the session.
func (m FormModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	w := &m.widgets[m.focus]
	var cmd tea.Cmd
	var before, after string

	switch {
	case w.isText():
		before = w.input.Value()
		w.input, cmd = w.input.Update(msg)
		after = w.input.Value()
	case w.field.Kind == form.KindTextarea:
		before = w.area.Value()
		w.area, cmd = w.area.Update(msg)
		after = w.area.Value()
	default:
		return m, nil
	}

	if after != before {
		if _, err := m.session.Change(w.field.Name, after); err != nil {
			m.err = err
		}
	}
	return m, cmd
}

func (m *FormModel) cycleOption(step int) tea.Cmd {
	w := &m.widgets[m.focus]
	n := len(w.field.Options)
	if n == 0 {
		return nil
	}
	switch {
	case w.option < 0 && step > 0:
		w.option = 0
	case w.option < 0:
		w.option = n - 1
	default:
		w.option = (w.option + step + n) % n
	}
	if _, err := m.session.Change(w.field.Name, w.field.Options[w.option].Value); err != nil {
		m.err = err
	}
	return nil
}

// focusWidget moves focus to index i and returns the blink command of the
// newly focused widget.
func (m *FormModel) focusWidget(i int) tea.Cmd {
	if len(m.widgets) == 0 {
		return nil
	}
	prev := &m.widgets[m.focus]
	prev.input.Blur()
	prev.area.Blur()

	m.focus = i
	w := &m.widgets[i]
	switch {
	case w.isText():
		return w.input.Focus()
	case w.field.Kind == form.KindTextarea:
		return w.area.Focus()
	}
	return nil
}

// submit runs the submit path. Rejections are shown inline; an unfilled
// alert schedules its own expiry.
func (m FormModel) submit() (tea.Model, tea.Cmd) {
	m.err = nil
	err := m.session.Submit(m.ctx)

	var serr *form.SubmitError
	if errors.As(err, &serr) {
		logging.Debug("Terminal submission rejected",
			zap.String("session_id", m.session.ID()),
			zap.String("kind", serr.Kind.String()),
		)
		if serr.Kind == form.ErrUnfilled {
			m.alertSeq++
			seq := m.alertSeq
			return m, tea.Tick(m.session.AlertDuration(), func(time.Time) tea.Msg {
				return alertExpiredMsg{seq: seq}
			})
		}
		if names := serr.Errors.Names(); len(names) > 0 {
			for i, w := range m.widgets {
				if w.field.Name == names[0] {
					return m, m.focusWidget(i)
				}
			}
		}
		return m, nil
	}
	if err != nil {
		m.err = err
		return m, nil
	}

	if m.session.State() == submission.StatePending {
		return m, m.spinner.Tick
	}
	return m, nil
}

// View renders the form, or the confirmation/failure modal over it
func (m FormModel) View() string {
	switch m.session.State() {
	case submission.StateSucceeded:
		if snap, ok := m.session.Confirmation(); ok {
			width := SafeModalWidth(72, m.Width)
			modal := lipgloss.JoinVertical(lipgloss.Left,
				ui.RenderConfirmation(snap, width),
				m.help.View(m.modalKeys.withRetry(false)),
			)
			return RenderModal(modal, m.Width, m.Height)
		}
	case submission.StateFailed:
		n := m.session.Notice()
		modal := lipgloss.JoinVertical(lipgloss.Left,
			ErrorBoxStyle.Width(SafeModalWidth(60, m.Width)).Render("✗ "+n.Message),
			m.help.View(m.modalKeys.withRetry(true)),
		)
		return RenderModal(modal, m.Width, m.Height)
	}

	return RenderApplicationContainer(m.buildContent(), m.help.View(m.keys), m.Width, m.Height)
}

func (k modalKeyMap) withRetry(retry bool) modalKeyMap {
	k.Retry.SetEnabled(retry)
	return k
}

func (m FormModel) buildContent() string {
	p := m.session.Profile()
	var b strings.Builder

	b.WriteString(RenderTitle(p.Title))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(p.Description))
	b.WriteString("\n\n")

	if n := m.session.Notice(); n.Kind == form.NoticeAlert {
		b.WriteString(AlertStyle.Render("⚠ " + n.Message))
		b.WriteString("\n\n")
	}

	errs := m.session.Errors()
	for i, w := range m.widgets {
		b.WriteString(m.renderField(i, w))
		b.WriteString("\n")
		if msg := errs[w.field.Name]; msg != "" {
			b.WriteString(FieldErrorStyle.Render(msg))
			b.WriteString("\n")
		} else if w.field.Help != "" && !w.field.Kind.IsBool() {
			b.WriteString(HelpTextStyle.Render(w.field.Help))
			b.WriteString("\n")
		}
	}

	if m.session.State() == submission.StatePending {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " Submitting...")
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(FieldErrorStyle.UnsetPaddingLeft().Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m FormModel) renderField(i int, w fieldWidget) string {
	labelStyle := LabelStyle
	if i == m.focus {
		labelStyle = FocusedLabelStyle
	}
	label := labelStyle.Render(w.field.Label)

	var control string
	switch {
	case w.isText():
		control = w.input.View()
	case w.field.Kind == form.KindTextarea:
		control = w.area.View()
	case w.field.Kind == form.KindSelect:
		text := "(none)"
		if w.option >= 0 {
			text = w.field.Options[w.option].Label
		}
		control = SelectedOptionStyle.Render("◂ " + text + " ▸")
	case w.field.Kind == form.KindRadio:
		opts := make([]string, len(w.field.Options))
		for j, o := range w.field.Options {
			if j == w.option {
				opts[j] = SelectedOptionStyle.Render("(•) " + o.Label)
			} else {
				opts[j] = OptionStyle.Render("( ) " + o.Label)
			}
		}
		control = strings.Join(opts, "  ")
	case w.field.Kind.IsBool():
		v, _ := m.session.Value(w.field.Name)
		box := "[ ]"
		if v.Bool() {
			box = "[x]"
		}
		text := w.field.Help
		if text == "" {
			text = w.field.Label
		}
		control = box + " " + text
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, label, control)
}
