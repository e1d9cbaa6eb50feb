package source

import (
	"fmt"
	"sort"
	"strings"

	"tidyseries/internal/tidy"
)

// Factory builds an Adapter (csv, xlsx, xls, …).
type Factory func() Adapter

var registry = map[string]Factory{}

// Register is called from each driver's init().
func Register(name string, f Factory) {
	registry[name] = f
}

// NewAdapter returns a driver by name. Drivers live in their own packages
// and only exist in the binary when something imports them.
func NewAdapter(name string) (Adapter, error) {
	if f, ok := registry[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("%w: source driver %q is not built in (available: %s); "+
		"import tidyseries/source/%s in cmd/tidy and rebuild",
		tidy.ErrMissingDependency, name, strings.Join(Drivers(), ", "), name)
}

// Drivers lists registered driver names, sorted.
func Drivers() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
