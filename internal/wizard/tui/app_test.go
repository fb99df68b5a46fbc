package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/contactform/internal/form"
)

func TestNewAppModel_UnknownProfile(t *testing.T) {
	_, err := NewAppModel(context.Background(), "wizard", form.Options{})
	assert.ErrorIs(t, err, form.ErrUnknownProfile)
}

func TestAppModel_PickProfile(t *testing.T) {
	m, err := NewAppModel(context.Background(), "", form.Options{})
	require.NoError(t, err)
	assert.Equal(t, ScreenProfiles, m.CurrentScreen)
	assert.Contains(t, m.View(), "Choose a form")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(AppModel)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(AppModel)
	t.Cleanup(m.Close)

	assert.NotNil(t, cmd)
	assert.Equal(t, ScreenForm, m.CurrentScreen)
	assert.Equal(t, m.Profiles[1], m.Form.Session().Profile().Name)
}

func TestAppModel_DirectProfile(t *testing.T) {
	m, err := NewAppModel(context.Background(), form.ProfileAsync, form.Options{})
	require.NoError(t, err)
	t.Cleanup(m.Close)

	assert.Equal(t, ScreenForm, m.CurrentScreen)
	assert.Contains(t, m.View(), "Text Input")

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(AppModel)
	assert.Equal(t, 100, m.Form.Width)
}

func TestAppModel_QuitFromPicker(t *testing.T) {
	m, err := NewAppModel(context.Background(), "", form.Options{})
	require.NoError(t, err)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
