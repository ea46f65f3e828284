package swap

// Extension attaches a capability to every handle a Manager builds.
// Extend is called once per handle, when the handle is constructed; the
// value it returns is what Handle.Capability hands back.
type Extension interface {
	Name() string
	Extend(h *Handle) any
}

type extensionFunc struct {
	name string
	fn   func(h *Handle) any
}

func (e extensionFunc) Name() string         { return e.name }
func (e extensionFunc) Extend(h *Handle) any { return e.fn(h) }

// NewExtension returns an Extension named name whose capability is built by fn.
func NewExtension(name string, fn func(h *Handle) any) Extension {
	return extensionFunc{name: name, fn: fn}
}

// CapabilityOf returns the capability registered under name on h, asserted
// to T. The second result is false when the capability is missing or has a
// different type.
func CapabilityOf[T any](h *Handle, name string) (T, bool) {
	var zero T
	v, ok := h.Capability(name)
	if !ok {
		return zero, false
	}
	c, ok := v.(T)
	if !ok {
		return zero, false
	}
	return c, true
}
