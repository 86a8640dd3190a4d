package macropad

import (
	"fmt"
	"strings"
)

// Step is one key-press unit within a binding: a modifier mask and exactly
// one key. Key holds the canonical symbolic name from the keycode table.
type Step struct {
	Modifiers byte
	Key       string
}

func (s Step) String() string {
	var b strings.Builder
	if s.Modifiers&ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if s.Modifiers&ModShift != 0 {
		b.WriteString("shift+")
	}
	if s.Modifiers&ModAlt != 0 {
		b.WriteString("alt+")
	}
	if s.Modifiers&ModMeta != 0 {
		b.WriteString("meta+")
	}
	b.WriteString(s.Key)
	return b.String()
}

// Binding is the ordered step sequence assigned to one button. Length 1 is
// a single key or combo, length >= 2 a macro. Step order is authoritative
// and never re-sorted.
type Binding struct {
	Steps []Step
}

// MaxMacroSteps is the capacity of one write report: (modifier, scancode)
// pairs fill the payload from offset 11 to the end.
const MaxMacroSteps = 27

// ParseBinding normalizes a config value into a Binding. A string is one
// step ("a", "ctrl+c"); an array of strings is a macro, one step per
// element in array order.
func ParseBinding(value interface{}) (Binding, error) {
	switch v := value.(type) {
	case string:
		step, err := parseStep(v)
		if err != nil {
			return Binding{}, err
		}
		return Binding{Steps: []Step{step}}, nil
	case []interface{}:
		if len(v) == 0 {
			return Binding{}, configErrorf("macro must contain at least one step")
		}
		if len(v) > MaxMacroSteps {
			return Binding{}, configErrorf("macro has %d steps, the device fits at most %d", len(v), MaxMacroSteps)
		}
		steps := make([]Step, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return Binding{}, configErrorf("macro step %d is %T, want a string", i+1, item)
			}
			step, err := parseStep(s)
			if err != nil {
				return Binding{}, fmt.Errorf("macro step %d: %w", i+1, err)
			}
			steps = append(steps, step)
		}
		return Binding{Steps: steps}, nil
	default:
		return Binding{}, configErrorf("invalid binding %v (%T), want a string or an array of strings", value, value)
	}
}

// parseStep splits on "+": every token but the last must resolve as a
// modifier, the last as a key. A modifier-only step is invalid.
func parseStep(s string) (Step, error) {
	tokens := strings.Split(s, "+")
	var mods byte
	for _, t := range tokens[:len(tokens)-1] {
		mask, err := ResolveModifier(t)
		if err != nil {
			return Step{}, err
		}
		mods |= mask
	}
	keyToken := normalizeToken(tokens[len(tokens)-1])
	if keyToken == "" {
		return Step{}, configErrorf("binding %q has no key after its modifiers", s)
	}
	code, err := ResolveKey(keyToken)
	if err != nil {
		return Step{}, err
	}
	return Step{Modifiers: mods, Key: keyNames[code]}, nil
}

// Equal reports whether two bindings have identical step sequences.
func (b Binding) Equal(other Binding) bool {
	if len(b.Steps) != len(other.Steps) {
		return false
	}
	for i := range b.Steps {
		if b.Steps[i] != other.Steps[i] {
			return false
		}
	}
	return true
}

func (b Binding) String() string {
	if len(b.Steps) == 1 {
		return b.Steps[0].String()
	}
	parts := make([]string, len(b.Steps))
	for i, s := range b.Steps {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Layer holds everything programmed onto one of the three device layers.
// It only lives for the duration of a programming run; the pad itself is
// the persistent store.
type Layer struct {
	Index    int
	Bindings map[ButtonID]Binding
	Led      *LedSetting
	DelayMS  int
}
