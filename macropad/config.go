package macropad

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Config is a parsed programming document: up to three layers, validated
// completely before any frame is built.
type Config struct {
	Layers []Layer
}

type rawConfig struct {
	Layers map[string]map[string]json.RawMessage `json:"layers"`
}

type rawLed struct {
	Color  string `json:"color"`
	Effect string `json:"effect"`
}

// LoadConfig reads and parses a JSON config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configErrorf("reading config file: %v", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses a JSON config document. Recognized per-layer keys are
// "led", "delay", the button names, and "_comment"; anything else is a
// configuration error rather than being silently dropped.
func ParseConfig(data []byte) (*Config, error) {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, configErrorf("invalid JSON: %v", err)
	}
	if len(raw.Layers) == 0 {
		return nil, configErrorf("no layers defined")
	}

	cfg := &Config{}
	seen := make(map[int]bool, len(raw.Layers))
	for layerKey, entries := range raw.Layers {
		index, err := strconv.Atoi(layerKey)
		if err != nil || index < 1 || index > NumLayers {
			return nil, configErrorf("invalid layer %q (must be 1-%d)", layerKey, NumLayers)
		}
		if seen[index] {
			return nil, configErrorf("layer %d defined twice", index)
		}
		seen[index] = true

		layer, err := parseLayer(index, entries)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", index, err)
		}
		cfg.Layers = append(cfg.Layers, layer)
	}
	sort.Slice(cfg.Layers, func(i, j int) bool { return cfg.Layers[i].Index < cfg.Layers[j].Index })
	return cfg, nil
}

func parseLayer(index int, entries map[string]json.RawMessage) (Layer, error) {
	layer := Layer{Index: index, Bindings: make(map[ButtonID]Binding)}
	for key, value := range entries {
		name := normalizeToken(key)
		switch {
		case strings.HasPrefix(name, "_"):
			// comment keys
		case name == "led":
			led, err := parseLed(value)
			if err != nil {
				return Layer{}, err
			}
			layer.Led = led
		case name == "delay":
			var ms int
			if err := json.Unmarshal(value, &ms); err != nil {
				return Layer{}, configErrorf("delay must be an integer: %v", err)
			}
			if ms < 0 {
				return Layer{}, configErrorf("delay %d ms is negative", ms)
			}
			if ms > 0xFFFF {
				return Layer{}, configErrorf("delay %d ms exceeds the 16-bit field", ms)
			}
			layer.DelayMS = ms
		default:
			btn, err := ResolveButton(name)
			if err != nil {
				return Layer{}, err
			}
			var v interface{}
			if err := json.Unmarshal(value, &v); err != nil {
				return Layer{}, configErrorf("%s: %v", name, err)
			}
			binding, err := ParseBinding(v)
			if err != nil {
				return Layer{}, fmt.Errorf("%s: %w", name, err)
			}
			layer.Bindings[btn] = binding
		}
	}
	return layer, nil
}

// parseLed accepts the object form {"color": ..., "effect": ...} and the
// shorthand color string, which means a static effect. Omitted object
// fields default to static red, matching the vendor tool.
func parseLed(value json.RawMessage) (*LedSetting, error) {
	var shorthand string
	if err := json.Unmarshal(value, &shorthand); err == nil {
		color, err := ResolveLedColor(shorthand)
		if err != nil {
			return nil, err
		}
		return &LedSetting{Color: color, Effect: EffectStatic}, nil
	}

	var raw rawLed
	if err := json.Unmarshal(value, &raw); err != nil {
		return nil, configErrorf("invalid led config: %v", err)
	}
	if raw.Color == "" {
		raw.Color = "red"
	}
	if raw.Effect == "" {
		raw.Effect = "static"
	}
	color, err := ResolveLedColor(raw.Color)
	if err != nil {
		return nil, err
	}
	effect, err := ResolveLedEffect(raw.Effect)
	if err != nil {
		return nil, err
	}
	return &LedSetting{Color: color, Effect: effect}, nil
}

// DefaultConfigJSON is the generated starter config: letters on layer 1,
// f1-f12 on layer 2, f13-f24 on layer 3, page/arrow navigation on the
// knobs.
const DefaultConfigJSON = `{
  "_comment": "See README.md for the config format, available keys, and LED options.",
  "layers": {
    "1": {
      "led": {"color": "red", "effect": "static"},
      "key1": "a", "key2": "b", "key3": "c",
      "key4": "d", "key5": "e", "key6": "f",
      "key7": "g", "key8": "h", "key9": "i",
      "key10": "j", "key11": "k", "key12": "l",
      "knob1_left": "pagedown", "knob1_press": "space", "knob1_right": "pageup",
      "knob2_left": "left", "knob2_press": "enter", "knob2_right": "right"
    },
    "2": {
      "led": {"color": "blue", "effect": "static"},
      "key1": "f1", "key2": "f2", "key3": "f3",
      "key4": "f4", "key5": "f5", "key6": "f6",
      "key7": "f7", "key8": "f8", "key9": "f9",
      "key10": "f10", "key11": "f11", "key12": "f12",
      "knob1_left": "pagedown", "knob1_press": "space", "knob1_right": "pageup",
      "knob2_left": "left", "knob2_press": "enter", "knob2_right": "right"
    },
    "3": {
      "led": {"color": "green", "effect": "static"},
      "key1": "f13", "key2": "f14", "key3": "f15",
      "key4": "f16", "key5": "f17", "key6": "f18",
      "key7": "f19", "key8": "f20", "key9": "f21",
      "key10": "f22", "key11": "f23", "key12": "f24",
      "knob1_left": "pagedown", "knob1_press": "space", "knob1_right": "pageup",
      "knob2_left": "left", "knob2_press": "enter", "knob2_right": "right"
    }
  }
}
`

// WriteDefaultConfig writes the starter config to path.
func WriteDefaultConfig(path string) error {
	if err := os.WriteFile(path, []byte(DefaultConfigJSON), 0644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
