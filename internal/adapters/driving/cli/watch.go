package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/connectors/filesystem"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

var watchDebounce time.Duration

// newWatcher builds the drop-folder watcher. Replaced in tests.
var newWatcher = func(dir, user string, assets driving.AssetService, debounce time.Duration) driving.Watcher {
	return filesystem.New(dir, user, assets, filesystem.WithDebounce(debounce))
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Ingest files dropped into a folder",
	Long: `Uploads every supported file already in the folder, then keeps
uploading files as they are added or changed. Hidden files and folders
are skipped. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", filesystem.DefaultDebounce,
		"how long a file must be unchanged before it is uploaded")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if assetService == nil {
		return errors.New("asset service not configured")
	}

	w := newWatcher(args[0], currentUser(), assetService, watchDebounce)
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	return w.Start(cmd.Context())
}
