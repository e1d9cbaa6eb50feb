package sink

import (
	"fmt"
	"sort"
	"strings"

	"tidyseries/internal/tidy"
)

// Adapter is the common behaviour every sink exposes. Nothing pushed is
// visible to readers until Close commits it.
type Adapter interface {
	Configure(any) error        // driver-specific config struct
	Push(tidy.LongRecord) error // consume one row
	Close() error               // commit; idempotent
}

// Aborter is optional; sinks that stage output implement it so a failed
// run leaves the previous output untouched.
type Aborter interface {
	Abort() error
}

// Target is optional; it names where the sink writes (a path, a topic).
type Target interface {
	Target() string
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	names := make([]string, 0, len(reg))
	for n := range reg {
		names = append(names, n)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("%w: unknown sink %q (available: %s); "+
		"import tidyseries/sink/%s in cmd/tidy and rebuild",
		tidy.ErrMissingDependency, name, strings.Join(names, ", "), name)
}
