package layer

import "sync"

import "github.com/pkg/errors"

var (
	mut      sync.RWMutex
	registry = map[string]func(Spec) (Layer, error){}
)

// Register makes a layer kind constructible from its Spec.
// Layer packages register themselves on init.
func Register(kind string, fn func(Spec) (Layer, error)) {
	mut.Lock()
	defer mut.Unlock()
	registry[kind] = fn
}

// FromSpec constructs an unbuilt layer from its Spec.
func FromSpec(s Spec) (Layer, error) {
	mut.RLock()
	fn, ok := registry[s.Kind]
	mut.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown layer kind %q", s.Kind)
	}
	l, err := fn(s)
	return l, errors.Wrapf(err, "constructing %s", s.Kind)
}
