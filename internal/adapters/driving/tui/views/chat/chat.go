// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// historyLimit is how many past exchanges are loaded on start.
const historyLimit = 20

// Turn is one exchange shown in the transcript.
type Turn struct {
	Question string
	Answer   string
	Sources  []domain.Source
	Err      error
}

// View shows the transcript above a question input and a status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript viewport.Model
	statusbar  *status.Bar

	chat   driving.ChatService
	userID string
	ctx    context.Context

	turns   []Turn
	pending string
	width   int
	height  int
}

// NewView creates a chat view for userID.
func NewView(s *styles.Styles, km *keymap.KeyMap, chat driving.ChatService, userID string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		transcript: viewport.New(80, 18),
		statusbar:  status.NewBar(s, km, km.ChatHelp()...),
		chat:       chat,
		userID:     userID,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
	v.refresh()
	return v
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor and loads recent history.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadHistory())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.HistoryLoaded:
		v.handleHistory(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Assets):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewAssets}
		}

	case keymap.Matches(msg.String(), v.keymap.ScrollUp),
		keymap.Matches(msg.String(), v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd

	case keymap.Matches(msg.String(), v.keymap.Send):
		if v.pending != "" {
			return v, nil
		}
		question := v.input.Submit()
		if question == "" {
			return v, nil
		}
		v.pending = question
		v.statusbar.Clear()
		v.statusbar.SetState(status.StateThinking)
		v.refresh()
		return v, v.ask(question)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// ask runs the question in the background.
func (v *View) ask(question string) tea.Cmd {
	ctx, chat, userID := v.ctx, v.chat, v.userID
	return func() tea.Msg {
		reply, err := chat.Ask(ctx, userID, question, nil)
		return messages.AnswerReceived{Question: question, Reply: reply, Err: err}
	}
}

func (v *View) loadHistory() tea.Cmd {
	ctx, chat, userID := v.ctx, v.chat, v.userID
	return func() tea.Msg {
		entries, err := chat.History(ctx, userID, historyLimit)
		return messages.HistoryLoaded{Entries: entries, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.pending = ""
	turn := Turn{Question: msg.Question, Err: msg.Err}
	if msg.Err == nil && msg.Reply != nil {
		turn.Answer = msg.Reply.Answer
		turn.Sources = msg.Reply.Sources
	}
	v.turns = append(v.turns, turn)

	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else {
		v.statusbar.Clear()
	}
	v.refresh()
}

// handleHistory places past exchanges before any turns from this session.
func (v *View) handleHistory(msg messages.HistoryLoaded) {
	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	past := make([]Turn, 0, len(msg.Entries)+len(v.turns))
	for i := len(msg.Entries) - 1; i >= 0; i-- {
		e := msg.Entries[i]
		past = append(past, Turn{Question: e.Question, Answer: e.Answer, Sources: e.Sources})
	}
	v.turns = append(past, v.turns...)
	v.refresh()
}

// refresh re-renders the transcript and keeps it scrolled to the end.
func (v *View) refresh() {
	v.transcript.SetContent(v.renderTranscript())
	v.transcript.GotoBottom()
}

func (v *View) renderTranscript() string {
	if len(v.turns) == 0 && v.pending == "" {
		return v.styles.Muted.Render("Ask a question about your uploaded files.")
	}

	// Leave room for the "Assistant: " label.
	wrapWidth := v.width - 12
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	wrap := lipgloss.NewStyle().Width(wrapWidth)
	blocks := make([]string, 0, len(v.turns)+1)
	for _, t := range v.turns {
		blocks = append(blocks, v.renderTurn(wrap, t))
	}
	if v.pending != "" {
		blocks = append(blocks, v.styles.Question.Render("You: ")+wrap.Render(v.pending))
	}
	return strings.Join(blocks, "\n\n")
}

func (v *View) renderTurn(wrap lipgloss.Style, t Turn) string {
	var b strings.Builder
	b.WriteString(v.styles.Question.Render("You: "))
	b.WriteString(wrap.Render(t.Question))
	b.WriteString("\n")

	if t.Err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", t.Err)))
		return b.String()
	}

	b.WriteString(v.styles.Answer.Render("Assistant: "))
	b.WriteString(wrap.Render(t.Answer))
	for _, src := range t.Sources {
		b.WriteString("\n")
		b.WriteString(v.styles.Source.Render(fmt.Sprintf("%s (%s)", src.Filename, src.Type)))
	}
	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	title := v.styles.Title.Render("sercha-rag")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		v.transcript.View(),
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view size. The transcript takes whatever the
// title, input and status bar leave.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)

	v.transcript.Width = width
	v.transcript.Height = height - 6
	if v.transcript.Height < 3 {
		v.transcript.Height = 3
	}
	v.refresh()
}

// SetFileCount shows how many files are available in the status bar.
func (v *View) SetFileCount(n int) {
	v.statusbar.SetLabel(fmt.Sprintf("%d files", n))
}

// Turns returns the transcript.
func (v *View) Turns() []Turn {
	return v.turns
}

// Pending returns the question awaiting an answer, if any.
func (v *View) Pending() string {
	return v.pending
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.statusbar
}

// Input returns the question input.
func (v *View) Input() *input.QuestionInput {
	return v.input
}
