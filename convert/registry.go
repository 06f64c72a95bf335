package convert

import (
	"sort"
	"sync"
	"time"
)

// DynamicFunc is the type-erased form of a conversion, used where the target
// type is chosen by name at runtime rather than at compile time.
type DynamicFunc func(text string) (any, error)

// Registry maps type names to conversions for data-driven callers such as
// form definitions, where the target type is a string in a YAML file.
type Registry struct {
	parsers map[string]DynamicFunc
	mu      sync.RWMutex
}

// NewRegistry creates a registry preloaded with the built-in conversions:
// string, int, int64, uint, float64, bool and duration.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]DynamicFunc),
	}

	r.Register("string", erase(For[string]))
	r.Register("int", erase(For[int]))
	r.Register("int64", erase(For[int64]))
	r.Register("uint", erase(For[uint]))
	r.Register("float64", erase(For[float64]))
	r.Register("bool", erase(For[bool]))
	r.Register("duration", erase(For[time.Duration]))

	return r
}

// Register adds or replaces the conversion for a type name.
func (r *Registry) Register(name string, parse DynamicFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[name] = parse
}

// Lookup retrieves the conversion for a type name.
func (r *Registry) Lookup(name string) (DynamicFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	parse, ok := r.parsers[name]
	return parse, ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// erase adapts a typed conversion into a DynamicFunc. The built-in
// conversions never fail to resolve, so resolution errors are ignored here.
func erase[T any](resolve func() (Func[T], error)) DynamicFunc {
	parse, _ := resolve()
	return func(text string) (any, error) {
		return parse(text)
	}
}
