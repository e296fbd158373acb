package style

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/npillmayer/fold"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Registry holds the declared style properties. Registries are filled during
// setup and read-only afterwards.
type Registry struct {
	props map[string]*Property
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{props: make(map[string]*Property)}
}

// Register declares a property. It fails if the key is already taken, if the
// default value does not match the kind, or if the kind does not support the
// fold strategy.
func (r *Registry) Register(p Property) (*Property, error) {
	if _, exists := r.props[p.Key]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateProperty, p.Key)
	}
	prop := &p
	if err := prop.validate(); err != nil {
		return nil, err
	}
	r.props[p.Key] = prop
	tracer().Debugf("registered style property %s", prop)
	return prop, nil
}

// Lookup finds a property by key. Unknown keys yield ErrUnknownProperty.
func (r *Registry) Lookup(key string) (*Property, error) {
	if r != nil {
		if p, ok := r.props[key]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, key)
}

// Keys returns all property keys in lexical order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.props))
	for k := range r.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- Loading ---------------------------------------------------------------

type registryFile struct {
	Properties []propertyDecl `yaml:"properties"`
}

type propertyDecl struct {
	Key       string `yaml:"key"`
	Kind      string `yaml:"kind"`
	Fold      string `yaml:"fold,omitempty"`
	Direction string `yaml:"direction,omitempty"`
	Default   string `yaml:"default,omitempty"`
}

// LoadRegistry reads property declarations in YAML format:
//
//	properties:
//	  - key: text-deco
//	    kind: decorations
//	    fold: concat
//	    direction: outer-first
//
// Errors of all declarations are reported together.
func LoadRegistry(rd io.Reader) (*Registry, error) {
	var file registryFile
	if err := yaml.NewDecoder(rd).Decode(&file); err != nil {
		return nil, fmt.Errorf("style registry: %w", err)
	}
	reg := NewRegistry()
	var errs error
	for _, decl := range file.Properties {
		p, err := decl.property()
		if err == nil {
			_, err = reg.Register(p)
		}
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return nil, errs
	}
	return reg, nil
}

func (decl propertyDecl) property() (Property, error) {
	p := Property{Key: decl.Key}
	var ok bool
	if p.Kind, ok = KindFromString(decl.Kind); !ok {
		return p, fmt.Errorf("property %s: %w: unknown kind %q", decl.Key, ErrSyntax, decl.Kind)
	}
	if p.Strategy, ok = StrategyFromString(decl.Fold); !ok {
		return p, fmt.Errorf("property %s: %w: unknown fold %q", decl.Key, ErrSyntax, decl.Fold)
	}
	switch decl.Direction {
	case "", "outer-first":
		p.Direction = fold.OuterFirst
	case "inner-first":
		p.Direction = fold.InnerFirst
	default:
		return p, fmt.Errorf("property %s: %w: unknown direction %q", decl.Key, ErrSyntax,
			decl.Direction)
	}
	if decl.Default != "" {
		v, err := ParseValue(p.Kind, decl.Default)
		if err != nil {
			return p, fmt.Errorf("property %s: %w", decl.Key, err)
		}
		p.Default = v
	}
	return p, nil
}

//go:embed registry.yaml
var defaultRegistryYAML []byte

var defaultRegistry struct {
	once sync.Once
	reg  *Registry
}

// Default returns the registry of built-in text properties (see registry.yaml).
func Default() *Registry {
	defaultRegistry.once.Do(func() {
		reg, err := LoadRegistry(bytes.NewReader(defaultRegistryYAML))
		assertThat(err == nil, "built-in registry is broken: %v", err)
		defaultRegistry.reg = reg
	})
	return defaultRegistry.reg
}
