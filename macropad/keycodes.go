package macropad

import (
	"fmt"
	"strings"
)

// HID modifier bit masks as packed into a write report's modifier byte.
const (
	ModCtrl  byte = 0x01
	ModShift byte = 0x02
	ModAlt   byte = 0x04
	ModMeta  byte = 0x08
)

var modifierCodes = map[string]byte{
	"ctrl":  ModCtrl,
	"shift": ModShift,
	"alt":   ModAlt,
	"meta":  ModMeta,
}

var modifierAliases = map[string]string{
	"control": "ctrl",
	"lctrl":   "ctrl",
	"lshift":  "shift",
	"option":  "alt",
	"lalt":    "alt",
	"win":     "meta",
	"cmd":     "meta",
	"gui":     "meta",
}

// keyCodes maps canonical symbolic key names to HID scancodes as the pad
// firmware stores them. This table is the single source of truth for both
// the encode and the decode path; keyNames below is its exact inverse.
var keyCodes = map[string]byte{
	"a": 0x04, "b": 0x05, "c": 0x06, "d": 0x07, "e": 0x08, "f": 0x09,
	"g": 0x0A, "h": 0x0B, "i": 0x0C, "j": 0x0D, "k": 0x0E, "l": 0x0F,
	"m": 0x10, "n": 0x11, "o": 0x12, "p": 0x13, "q": 0x14, "r": 0x15,
	"s": 0x16, "t": 0x17, "u": 0x18, "v": 0x19, "w": 0x1A, "x": 0x1B,
	"y": 0x1C, "z": 0x1D,

	"1": 0x1E, "2": 0x1F, "3": 0x20, "4": 0x21, "5": 0x22,
	"6": 0x23, "7": 0x24, "8": 0x25, "9": 0x26, "0": 0x27,

	"enter": 0x28, "esc": 0x29, "backspace": 0x2A, "tab": 0x2B, "space": 0x2C,
	"minus": 0x2D, "equal": 0x2E, "lbracket": 0x2F, "rbracket": 0x30,
	"backslash": 0x31, "semicolon": 0x33, "quote": 0x34, "grave": 0x35,
	"comma": 0x36, "period": 0x37, "slash": 0x38, "capslock": 0x39,

	"f1": 0x3A, "f2": 0x3B, "f3": 0x3C, "f4": 0x3D, "f5": 0x3E, "f6": 0x3F,
	"f7": 0x40, "f8": 0x41, "f9": 0x42, "f10": 0x43, "f11": 0x44, "f12": 0x45,

	"printscreen": 0x46, "scrolllock": 0x47, "pause": 0x48,
	"insert": 0x49, "home": 0x4A, "pageup": 0x4B,
	"delete": 0x4C, "end": 0x4D, "pagedown": 0x4E,
	"right": 0x4F, "left": 0x50, "down": 0x51, "up": 0x52,

	"f13": 0x68, "f14": 0x69, "f15": 0x6A, "f16": 0x6B, "f17": 0x6C,
	"f18": 0x6D, "f19": 0x6E, "f20": 0x6F, "f21": 0x70, "f22": 0x71,
	"f23": 0x72, "f24": 0x73,

	"mute": 0x7F, "volume_up": 0x80, "volume_down": 0x81,
}

// keyAliases resolve to canonical names before the table lookup, so the
// canonical table itself stays bijective.
var keyAliases = map[string]string{
	"return": "enter",
	"escape": "esc",
}

// keyNames is the scancode -> canonical name inverse of keyCodes.
var keyNames map[byte]string

func init() {
	keyNames = make(map[byte]string, len(keyCodes))
	for name, code := range keyCodes {
		if prev, dup := keyNames[code]; dup {
			panic(fmt.Errorf("%w: keys %q and %q share scancode %#02x", ErrProtocol, prev, name, code))
		}
		keyNames[code] = name
	}
	for alias, canonical := range keyAliases {
		if _, ok := keyCodes[canonical]; !ok {
			panic(fmt.Errorf("%w: key alias %q points at unknown key %q", ErrProtocol, alias, canonical))
		}
		if _, ok := keyCodes[alias]; ok {
			panic(fmt.Errorf("%w: key alias %q shadows a canonical key", ErrProtocol, alias))
		}
	}
	var seen byte
	for name, mask := range modifierCodes {
		if mask == 0 || mask&(mask-1) != 0 || seen&mask != 0 {
			panic(fmt.Errorf("%w: modifier %q does not map to a unique bit", ErrProtocol, name))
		}
		seen |= mask
	}
	for alias, canonical := range modifierAliases {
		if _, ok := modifierCodes[canonical]; !ok {
			panic(fmt.Errorf("%w: modifier alias %q points at unknown modifier %q", ErrProtocol, alias, canonical))
		}
		if _, ok := modifierCodes[alias]; ok {
			panic(fmt.Errorf("%w: modifier alias %q shadows a canonical modifier", ErrProtocol, alias))
		}
	}
}

func normalizeToken(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ResolveKey returns the scancode for a symbolic key name. Lookup is
// case-insensitive and resolves aliases (return, escape).
func ResolveKey(name string) (byte, error) {
	n := normalizeToken(name)
	if canonical, ok := keyAliases[n]; ok {
		n = canonical
	}
	code, ok := keyCodes[n]
	if !ok {
		return 0, &UnknownKeyError{Name: name}
	}
	return code, nil
}

// ResolveModifier returns the modifier bit mask for a modifier name,
// resolving aliases (control, win, cmd, gui, option, ...).
func ResolveModifier(name string) (byte, error) {
	n := normalizeToken(name)
	if canonical, ok := modifierAliases[n]; ok {
		n = canonical
	}
	mask, ok := modifierCodes[n]
	if !ok {
		return 0, &UnknownModifierError{Name: name}
	}
	return mask, nil
}

// KeyName returns the canonical symbolic name for a scancode. Scancode 0
// (unbound) and codes outside the table report ok=false.
func KeyName(code byte) (string, bool) {
	name, ok := keyNames[code]
	return name, ok
}

// KnownScancodes lists every scancode the table covers, in no particular order.
func KnownScancodes() []byte {
	codes := make([]byte, 0, len(keyNames))
	for code := range keyNames {
		codes = append(codes, code)
	}
	return codes
}
