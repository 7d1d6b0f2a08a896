// Package catalog provides access to the book catalog. Two backends
// exist: an HTTP service and a local YAML file. Both satisfy Source;
// the file backend additionally pushes a change signal when the
// underlying data changes, re-firing the initial load.
package catalog

import (
	"context"

	"bookscout/internal/core"
)

// Source is the catalog contract: fetch the unfiltered catalog or
// search it. An empty search term means "no filter" and returns the
// full catalog; callers must not short-circuit empty terms.
type Source interface {
	FetchAll(ctx context.Context) ([]core.Record, error)
	Search(ctx context.Context, term string) ([]core.Record, error)
}

// Watchable is implemented by sources whose underlying data can change
// behind the component's back. Changes delivers one signal per
// (debounced) change; Close releases the watcher.
type Watchable interface {
	Changes() <-chan struct{}
	Close() error
}
