package swap

import (
	"sort"

	"github.com/patrickmn/go-cache"
)

// Registry maps derived table names to their data-access handles. Entries
// never expire. A Registry is safe for concurrent use.
type Registry struct {
	handles *cache.Cache
}

// DefaultRegistry is the process-wide registry used by managers that are not
// given one with WithRegistry. Handles are keyed by table name only, so two
// managers for the same basename on different databases share a handle;
// give such managers separate registries.
var DefaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: cache.New(cache.NoExpiration, 0)}
}

// Load returns the handle registered for name.
func (r *Registry) Load(name string) (*Handle, bool) {
	v, ok := r.handles.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Handle), true
}

// LoadOrStore registers h under name unless a handle is already registered.
// It returns the registered handle and whether it was already present.
func (r *Registry) LoadOrStore(name string, h *Handle) (*Handle, bool) {
	for {
		if err := r.handles.Add(name, h, cache.NoExpiration); err == nil {
			return h, false
		}
		if existing, ok := r.Load(name); ok {
			return existing, true
		}
		// Deleted between Add and Load; try again.
	}
}

// Delete removes the handle registered for name.
func (r *Registry) Delete(name string) {
	r.handles.Delete(name)
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	return r.handles.ItemCount()
}

// Names returns the registered table names in sorted order.
func (r *Registry) Names() []string {
	items := r.handles.Items()
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset removes every handle.
func (r *Registry) Reset() {
	r.handles.Flush()
}
