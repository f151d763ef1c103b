package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuestionInput(t *testing.T) {
	in := NewQuestionInput(nil)

	require.NotNil(t, in)
	assert.NotNil(t, in.styles)
	assert.True(t, in.Focused())
	assert.Equal(t, "", in.Value())
	assert.NotNil(t, in.Init())
}

func TestQuestionInput_Typing(t *testing.T) {
	in := NewQuestionInput(nil)

	for _, r := range "hi" {
		in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "hi", in.Value())
}

func TestQuestionInput_Submit(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		submitted string
		remaining string
	}{
		{"trims and clears", "  what is in the report?  ", "what is in the report?", ""},
		{"blank is ignored", "   ", "", "   "},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewQuestionInput(nil)
			in.SetValue(tt.value)

			assert.Equal(t, tt.submitted, in.Submit())
			assert.Equal(t, tt.remaining, in.Value())
		})
	}
}

func TestQuestionInput_FocusBlur(t *testing.T) {
	in := NewQuestionInput(nil)

	in.Blur()
	assert.False(t, in.Focused())

	in.Focus()
	assert.True(t, in.Focused())
}

func TestQuestionInput_SetWidth(t *testing.T) {
	in := NewQuestionInput(nil)

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.Equal(t, 92, in.textinput.Width)

	in.SetWidth(10)
	assert.Equal(t, 20, in.textinput.Width)
}

func TestQuestionInput_View(t *testing.T) {
	in := NewQuestionInput(nil)
	in.SetValue("hello")

	assert.Contains(t, in.View(), "hello")
}
