package layout

import (
	"github.com/npillmayer/fold/style"
	"github.com/npillmayer/schuko"
)

// Options control a layout run.
type Options struct {
	MaxPasses int                    // upper bound for the number of passes
	Slots     map[string]style.Value // initial values of state slots
}

// DefaultMaxPasses is the pass bound if none is configured.
const DefaultMaxPasses = 5

// DefaultOptions returns options with a default pass bound. Slots not listed
// in Slots are integer counters starting at 0.
func DefaultOptions() Options {
	return Options{MaxPasses: DefaultMaxPasses}
}

// OptionsFrom reads layout options from a configuration.
func OptionsFrom(conf schuko.Configuration) Options {
	opts := DefaultOptions()
	if conf != nil && conf.IsSet("fold.max-passes") {
		if n := conf.GetInt("fold.max-passes"); n > 0 {
			opts.MaxPasses = n
		} else {
			tracer().Errorf("ignoring invalid fold.max-passes %q", conf.GetString("fold.max-passes"))
		}
	}
	return opts
}

// WithSlot returns a copy of opts declaring a state slot with an initial value.
func (opts Options) WithSlot(name string, initial style.Value) Options {
	slots := make(map[string]style.Value, len(opts.Slots)+1)
	for k, v := range opts.Slots {
		slots[k] = v
	}
	slots[name] = initial
	opts.Slots = slots
	return opts
}
