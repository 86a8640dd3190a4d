package macropad

import "fmt"

// LedColor is the 4-bit color index of the backlight.
type LedColor byte

const (
	ColorOff    LedColor = 0
	ColorRed    LedColor = 1
	ColorOrange LedColor = 2
	ColorYellow LedColor = 3
	ColorGreen  LedColor = 4
	ColorCyan   LedColor = 5
	ColorBlue   LedColor = 6
	ColorPurple LedColor = 7
)

// LedEffect is the 4-bit animation index of the backlight. EffectWhite
// overrides the color on the device; the color nibble is still encoded as
// given.
type LedEffect byte

const (
	EffectOff      LedEffect = 0
	EffectStatic   LedEffect = 1
	EffectRipple   LedEffect = 2
	EffectWave     LedEffect = 3
	EffectReactive LedEffect = 4
	EffectWhite    LedEffect = 5
)

var ledColors = map[string]LedColor{
	"off": ColorOff, "red": ColorRed, "orange": ColorOrange,
	"yellow": ColorYellow, "green": ColorGreen, "cyan": ColorCyan,
	"blue": ColorBlue, "purple": ColorPurple,
}

var ledEffects = map[string]LedEffect{
	"off": EffectOff, "static": EffectStatic, "ripple": EffectRipple,
	"wave": EffectWave, "reactive": EffectReactive, "white": EffectWhite,
}

var (
	ledColorNames  map[LedColor]string
	ledEffectNames map[LedEffect]string
)

func init() {
	ledColorNames = make(map[LedColor]string, len(ledColors))
	for name, c := range ledColors {
		ledColorNames[c] = name
	}
	ledEffectNames = make(map[LedEffect]string, len(ledEffects))
	for name, e := range ledEffects {
		ledEffectNames[e] = name
	}
}

// ResolveLedColor maps a color name to its device index.
func ResolveLedColor(name string) (LedColor, error) {
	c, ok := ledColors[normalizeToken(name)]
	if !ok {
		return 0, configErrorf("unknown LED color %q", name)
	}
	return c, nil
}

// ResolveLedEffect maps an effect name to its device index.
func ResolveLedEffect(name string) (LedEffect, error) {
	e, ok := ledEffects[normalizeToken(name)]
	if !ok {
		return 0, configErrorf("unknown LED effect %q", name)
	}
	return e, nil
}

func (c LedColor) String() string {
	if name, ok := ledColorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("color %d", byte(c))
}

func (e LedEffect) String() string {
	if name, ok := ledEffectNames[e]; ok {
		return name
	}
	return fmt.Sprintf("effect %d", byte(e))
}

// LedSetting selects a layer's backlight color and effect.
type LedSetting struct {
	Color  LedColor
	Effect LedEffect
}

func (l LedSetting) String() string {
	return fmt.Sprintf("%s %s", l.Effect, l.Color)
}

// packed returns the single LED byte the layer-config report carries.
func (l LedSetting) packed() byte {
	return byte(l.Color&0x0F)<<4 | byte(l.Effect&0x0F)
}
