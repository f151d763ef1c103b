// Package cli provides the sercha-rag command line interface.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var (
	verbose bool
	userID  string
)

// Services wired in by main.
var (
	assetService    driving.AssetService
	chatService     driving.ChatService
	settingsService driving.SettingsService
)

// stdinIsTerminal reports whether stdin is an interactive terminal.
// Replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var rootCmd = &cobra.Command{
	Use:   "sercha-rag",
	Short: "Ask questions about your files",
	Long: `sercha-rag ingests PDFs, Word documents, text files and images,
and answers questions about them with citations to the files used.

Upload files with 'sercha-rag ingest', then ask with 'sercha-rag ask'
or open the interactive chat with 'sercha-rag chat'.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "user to act as (default from settings)")
}

// Services holds the core services the commands drive.
type Services struct {
	Assets   driving.AssetService
	Chat     driving.ChatService
	Settings driving.SettingsService
}

// SetServices wires the core services into the commands.
func SetServices(s Services) {
	assetService = s.Assets
	chatService = s.Chat
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// currentUser returns the --user flag, else the configured user, else the
// default.
func currentUser() string {
	if userID != "" {
		return userID
	}
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil && s.UserID != "" {
			return s.UserID
		}
	}
	return domain.DefaultUserID
}
