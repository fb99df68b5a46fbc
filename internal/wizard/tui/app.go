package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/contactform/internal/form"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenProfiles Screen = "profiles"
	ScreenForm     Screen = "form"
)

// pickerKeyMap defines key bindings for the profile picker
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select, k.Quit}}
}

// AppModel is the main application model that manages screen transitions
type AppModel struct {
	ctx  context.Context
	opts form.Options

	CurrentScreen Screen

	// Profile picker
	Profiles []string
	Cursor   int

	Form      FormModel
	formReady bool
	LastError error

	Width  int
	Height int

	Help       help.Model
	PickerKeys pickerKeyMap
}

// NewAppModel creates the application. An empty profile starts at the
// profile picker; otherwise the named form opens directly.
func NewAppModel(ctx context.Context, profile string, opts form.Options) (AppModel, error) {
	m := AppModel{
		ctx:           ctx,
		opts:          opts,
		CurrentScreen: ScreenProfiles,
		Profiles:      form.Names(),
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Help:          help.New(),
		PickerKeys: pickerKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "down"),
			),
			Select: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "open"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
	}

	if profile == "" {
		return m, nil
	}
	if err := m.openForm(profile); err != nil {
		return AppModel{}, err
	}
	return m, nil
}

func (m *AppModel) openForm(name string) error {
	p, err := form.Lookup(name)
	if err != nil {
		return err
	}
	sess, err := form.NewSession(p, m.opts)
	if err != nil {
		return fmt.Errorf("failed to open %s form: %w", name, err)
	}
	m.Form = NewFormModel(m.ctx, sess)
	m.Form.Width = m.Width
	m.Form.Height = m.Height
	m.formReady = true
	m.CurrentScreen = ScreenForm
	return nil
}

// Close releases the open form session, if any
func (m AppModel) Close() {
	if m.formReady {
		m.Form.Close()
		m.Form.Session().Close()
	}
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	if m.CurrentScreen == ScreenForm {
		return m.Form.Init()
	}
	return nil
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.Width = msg.Width
		m.Height = msg.Height
	}

	switch m.CurrentScreen {
	case ScreenForm:
		updated, cmd := m.Form.Update(msg)
		m.Form = updated.(FormModel)
		return m, cmd
	default:
		return m.updatePicker(msg)
	}
}

func (m AppModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.PickerKeys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.PickerKeys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(keyMsg, m.PickerKeys.Down):
		if m.Cursor < len(m.Profiles)-1 {
			m.Cursor++
		}
	case key.Matches(keyMsg, m.PickerKeys.Select):
		if err := m.openForm(m.Profiles[m.Cursor]); err != nil {
			m.LastError = err
			return m, nil
		}
		return m, m.Form.Init()
	}
	return m, nil
}

// View renders the current screen
func (m AppModel) View() string {
	if m.CurrentScreen == ScreenForm {
		return m.Form.View()
	}
	return RenderApplicationContainer(m.buildPickerContent(), m.Help.View(m.PickerKeys), m.Width, m.Height)
}

func (m AppModel) buildPickerContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Choose a form"))
	b.WriteString("\n")

	for i, name := range m.Profiles {
		p, err := form.Lookup(name)
		if err != nil {
			continue
		}
		b.WriteString(RenderMenuItem(fmt.Sprintf("%-8s %s", p.Name, p.Title), i == m.Cursor))
		b.WriteString("\n")
		b.WriteString(MenuItemStyle.Render("  " + SubtitleStyle.Render(p.Description)))
		b.WriteString("\n")
	}

	if m.LastError != nil {
		b.WriteString("\n")
		b.WriteString(ErrorBoxStyle.Render(fmt.Sprintf("Error: %v", m.LastError)))
		b.WriteString("\n")
	}
	return b.String()
}

// Run opens the terminal form and blocks until the user quits or ctx is
// cancelled. The returned snapshot holds the last confirmed submission.
func Run(ctx context.Context, profile string, opts form.Options, programOpts ...tea.ProgramOption) (*form.Snapshot, error) {
	app, err := NewAppModel(ctx, profile, opts)
	if err != nil {
		return nil, err
	}

	programOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, programOpts...)
	final, err := tea.NewProgram(app, programOpts...).Run()
	if m, ok := final.(AppModel); ok {
		defer m.Close()
		if m.formReady {
			if snap, ok := m.Form.Session().Confirmation(); ok {
				return &snap, err
			}
		}
	} else {
		app.Close()
	}
	return nil, err
}
