package watcher

import "context"

// Watcher monitors an inbox whose immediate subdirectories name classes.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler handles one new file dropped into inbox/<class>/.
type EventHandler func(ctx context.Context, class, filePath string) error
