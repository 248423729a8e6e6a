package style

import (
	"errors"
	"fmt"
	"sync"

	"github.com/woozymasta/egmsmap/internal/geo"
)

// ErrUnknownExtension is returned when a hook name is not registered.
var ErrUnknownExtension = errors.New("unknown extension")

// Well-known registry names.
const (
	DefaultNamespace = "default"
	TooltipHook      = "function0"
	MarkerHook       = "function1"
)

// OnEachFeature is called once per feature after its layer is built.
type OnEachFeature func(feature geo.Feature, layer TooltipBinder)

// PointToLayer builds the layer for a point feature.
type PointToLayer func(latlng LatLng, feature geo.Feature, hideout Hideout) CircleMarker

// Extensions maps hook names to hook functions.
type Extensions map[string]any

var (
	registryMu sync.RWMutex
	registry   = map[string]Extensions{}
)

func init() {
	Register(DefaultNamespace, Extensions{
		TooltipHook: OnEachFeature(BindTooltip),
		MarkerHook:  PointToLayer(MakeColoredMarker),
	})
}

// Register merges ext into the namespace. Existing names are replaced.
func Register(namespace string, ext Extensions) {
	registryMu.Lock()
	defer registryMu.Unlock()

	ns, ok := registry[namespace]
	if !ok {
		ns = Extensions{}
		registry[namespace] = ns
	}
	for name, fn := range ext {
		ns[name] = fn
	}
}

// Lookup returns the hook registered under namespace and name.
func Lookup(namespace, name string) (any, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	fn, ok := registry[namespace][name]
	return fn, ok
}

// LookupOnEachFeature resolves a tooltip-style hook.
func LookupOnEachFeature(namespace, name string) (OnEachFeature, error) {
	fn, ok := Lookup(namespace, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownExtension, namespace, name)
	}
	hook, ok := fn.(OnEachFeature)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s is %T, not OnEachFeature", ErrUnknownExtension, namespace, name, fn)
	}
	return hook, nil
}

// LookupPointToLayer resolves a marker-building hook.
func LookupPointToLayer(namespace, name string) (PointToLayer, error) {
	fn, ok := Lookup(namespace, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownExtension, namespace, name)
	}
	hook, ok := fn.(PointToLayer)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s is %T, not PointToLayer", ErrUnknownExtension, namespace, name, fn)
	}
	return hook, nil
}
