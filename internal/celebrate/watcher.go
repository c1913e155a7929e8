// Package celebrate decides when the completion celebration fires and
// produces its particle bursts.
package celebrate

// Watcher turns a stream of "is the list complete" observations into a
// single trigger per transition to complete.
type Watcher struct {
	complete bool
}

// NewWatcher creates a Watcher whose last observation was complete.
func NewWatcher(complete bool) *Watcher {
	return &Watcher{complete: complete}
}

// Observe records complete and reports whether it is a transition from
// incomplete to complete.
func (w *Watcher) Observe(complete bool) bool {
	fire := complete && !w.complete
	w.complete = complete
	return fire
}

// Sync records complete without ever firing.
func (w *Watcher) Sync(complete bool) {
	w.complete = complete
}
