package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

var (
	askAssets []string
	askJSON   bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about your files",
	Long: `Answers a question using the most relevant passages from your
uploaded files, and lists the files the answer drew on.

Use --asset to restrict the search to specific files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSliceVarP(&askAssets, "asset", "a", nil, "restrict to these asset IDs")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

type askOutput struct {
	Answer   string          `json:"answer"`
	Sources  []domain.Source `json:"sources"`
	Grounded bool            `json:"grounded"`
	Greeting bool            `json:"greeting,omitempty"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	question := strings.Join(args, " ")
	reply, err := chatService.Ask(cmd.Context(), currentUser(), question, askAssets)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(askOutput{
			Answer:   reply.Answer,
			Sources:  reply.Sources,
			Grounded: reply.Grounded,
			Greeting: reply.Greeting,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if isTerminal(cmd.OutOrStdout()) {
		cmd.Println(renderReplyStyled(reply))
		return nil
	}
	cmd.Print(renderReplyPlain(reply))
	return nil
}

func renderReplyPlain(reply *driving.ChatReply) string {
	var b strings.Builder
	b.WriteString(reply.Answer)
	b.WriteString("\n")
	if len(reply.Sources) > 0 {
		b.WriteString("\nSources:\n")
		for _, s := range reply.Sources {
			fmt.Fprintf(&b, "  - %s (%s)\n", s.Filename, s.Type)
		}
	}
	return b.String()
}

var answerStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#06B6D4")).
	Padding(0, 1)

var (
	sourceHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	sourceStyle       = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#6C7086"))
	ungroundedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
)

func renderReplyStyled(reply *driving.ChatReply) string {
	parts := []string{answerStyle.Width(78).Render(reply.Answer)}
	if len(reply.Sources) > 0 {
		parts = append(parts, sourceHeaderStyle.Render("Sources"))
		for _, s := range reply.Sources {
			parts = append(parts, sourceStyle.Render(fmt.Sprintf("  %s (%s)", s.Filename, s.Type)))
		}
	} else if !reply.Grounded && !reply.Greeting {
		parts = append(parts, ungroundedStyle.Render("No matching passages were found in your files."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
