package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui"
)

// runApp starts the TUI. Replaced in tests.
var runApp = func(app *tui.App) error {
	return app.Run()
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat",
	Long: `Opens a terminal chat over your uploaded files.

Controls:
  Enter     - Ask
  PgUp/PgDn - Scroll the conversation
  Tab       - Show files (d to delete, r to refresh)
  Esc       - Back to the chat
  Ctrl+C    - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) (err error) {
	if !stdinIsTerminal() {
		return errors.New("chat needs an interactive terminal; use 'sercha-rag ask' instead")
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("panic in chat: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Chat:   chatService,
		Assets: assetService,
		UserID: currentUser(),
	})
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := runApp(app); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
