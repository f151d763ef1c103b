package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent questions and answers",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of exchanges")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
}

type historyEntry struct {
	Question string          `json:"question"`
	Answer   string          `json:"answer"`
	Sources  []domain.Source `json:"sources"`
	Grounded bool            `json:"grounded"`
	AskedAt  string          `json:"asked_at"`
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	entries, err := chatService.History(cmd.Context(), currentUser(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if historyJSON {
		out := make([]historyEntry, len(entries))
		for i := range entries {
			out[i] = historyEntry{
				Question: entries[i].Question,
				Answer:   entries[i].Answer,
				Sources:  entries[i].Sources,
				Grounded: entries[i].Grounded,
				AskedAt:  entries[i].CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
		}
		return printJSON(cmd, out)
	}

	if len(entries) == 0 {
		cmd.Println("No questions asked yet.")
		return nil
	}

	for i := range entries {
		e := &entries[i]
		cmd.Printf("[%s] Q: %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Question)
		cmd.Printf("A: %s\n", e.Answer)
		for _, s := range e.Sources {
			cmd.Printf("  - %s (%s)\n", s.Filename, s.Type)
		}
		cmd.Println()
	}
	return nil
}
