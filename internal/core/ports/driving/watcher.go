package driving

import "context"

// Watcher ingests files dropped into a directory.
type Watcher interface {
	// Start ingests files already present, then watches for new or
	// changed files. Blocks until ctx is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop ends the watch.
	Stop() error
}
