package landing

import (
	"embed"
	"encoding/json"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

var (
	defaultsOnce sync.Once                //nolint:gochecknoglobals
	defaults     map[Type]json.RawMessage //nolint:gochecknoglobals
	defaultsErr  error                    //nolint:gochecknoglobals
)

// Preset is a named component config shipped with the application.
type Preset struct {
	ID     string          `yaml:"id"`
	Name   string          `yaml:"name"`
	Type   Type            `yaml:"type"`
	Config json.RawMessage `yaml:"-"`
	Raw    map[string]any  `yaml:"config"`
}

func loadDefaults() {
	raw, err := dataFS.ReadFile("data/defaults.yaml")
	if err != nil {
		defaultsErr = pkgerrors.Wrap(err, "failed to read component defaults")

		return
	}

	var parsed map[string]map[string]any

	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		defaultsErr = pkgerrors.Wrap(err, "failed to parse component defaults")

		return
	}

	defaults = make(map[Type]json.RawMessage, len(parsed))

	for name, cfg := range parsed {
		b, err := json.Marshal(cfg)
		if err != nil {
			defaultsErr = pkgerrors.Wrapf(err, "failed to encode default config of %s", name)

			return
		}

		defaults[Type(name)] = b
	}
}

// DefaultConfig returns the config a new component of type t starts with.
// Unknown types get an empty object.
func DefaultConfig(t Type) json.RawMessage {
	defaultsOnce.Do(loadDefaults)

	if cfg, ok := defaults[t]; ok {
		out := make(json.RawMessage, len(cfg))
		copy(out, cfg)

		return out
	}

	return json.RawMessage(`{}`)
}

// DefaultsErr reports a broken embedded defaults file.
func DefaultsErr() error {
	defaultsOnce.Do(loadDefaults)

	return defaultsErr
}

// NewComponent returns a component of type t with its default config.
func NewComponent(id string, t Type, order int) Component {
	return Component{ID: id, Type: t, Config: DefaultConfig(t), Order: order}
}

// SystemPresets returns the embedded system component templates.
func SystemPresets() ([]Preset, error) {
	raw, err := dataFS.ReadFile("data/system_components.yaml")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read system components")
	}

	var presets []Preset

	if err := yaml.Unmarshal(raw, &presets); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to parse system components")
	}

	for i := range presets {
		b, err := json.Marshal(presets[i].Raw)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to encode system component %s", presets[i].ID)
		}

		presets[i].Config = b
	}

	return presets, nil
}
