package macropad

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// want builds the expected 65-byte report from its leading bytes; the
// remainder is zero padding.
func want(prefix ...byte) [ReportSize]byte {
	var d [ReportSize]byte
	copy(d[:], prefix)
	return d
}

func mustBinding(t *testing.T, value interface{}) Binding {
	t.Helper()
	b, err := ParseBinding(value)
	require.NoError(t, err)
	return b
}

func TestLayerFramesSingleKey(t *testing.T) {
	layer := Layer{
		Index:    1,
		Bindings: map[ButtonID]Binding{ButtonKey1: mustBinding(t, "a")},
	}
	frames, err := LayerFrames(layer)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t,
		want(0x03, 0xFD, 0x01, 0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x04),
		frames[0].Data)
	assert.Equal(t, want(0x03, 0xFD, 0xFE, 0xFF), frames[1].Data)
}

func TestLayerFramesCombo(t *testing.T) {
	layer := Layer{
		Index:    2,
		Bindings: map[ButtonID]Binding{ButtonKey3: mustBinding(t, "ctrl+shift+t")},
	}
	frames, err := LayerFrames(layer)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t,
		want(0x03, 0xFD, 0x03, 0x02, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, ModCtrl|ModShift, 0x17),
		frames[0].Data)
}

func TestLayerFramesMacroPacksPairs(t *testing.T) {
	layer := Layer{
		Index:    1,
		Bindings: map[ButtonID]Binding{ButtonKey2: mustBinding(t, []interface{}{"ctrl+c", "ctrl+v", "enter"})},
	}
	frames, err := LayerFrames(layer)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	data := frames[0].Data
	assert.Equal(t, byte(0x03), data[10], "step count")
	assert.Equal(t, ModCtrl, data[11])
	assert.Equal(t, byte(0x06), data[12]) // c
	assert.Equal(t, ModCtrl, data[13])
	assert.Equal(t, byte(0x19), data[14]) // v
	assert.Equal(t, byte(0x00), data[15])
	assert.Equal(t, byte(0x28), data[16]) // enter
	assert.Equal(t, byte(0x00), data[17], "padding after last step")
}

func TestLayerFramesKnobBinding(t *testing.T) {
	layer := Layer{
		Index:    1,
		Bindings: map[ButtonID]Binding{ButtonKnob1Left: mustBinding(t, "volume_down")},
	}
	frames, err := LayerFrames(layer)
	require.NoError(t, err)
	assert.Equal(t,
		want(0x03, 0xFD, 0x15, 0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x81),
		frames[0].Data)
}

func TestLayerFramesLed(t *testing.T) {
	led := LedSetting{Color: ColorCyan, Effect: EffectStatic}
	layer := Layer{Index: 1, Led: &led}
	frames, err := LayerFrames(layer)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	expected := want(0x03, 0xFE, 0xB0, 0x01, 0x08)
	expected[10] = 0x01
	expected[12] = 0x51 // cyan << 4 | static
	assert.Equal(t, expected, frames[0].Data)
	assert.Equal(t, want(0x03, 0xFD, 0xFE, 0xFF), frames[1].Data)
}

func TestLedBytePacking(t *testing.T) {
	tests := []struct {
		led  LedSetting
		want byte
	}{
		{LedSetting{ColorCyan, EffectStatic}, 0x51},
		{LedSetting{ColorBlue, EffectWave}, 0x63},
		{LedSetting{ColorRed, EffectStatic}, 0x11},
		{LedSetting{ColorPurple, EffectReactive}, 0x74},
		{LedSetting{ColorOff, EffectOff}, 0x00},
		{LedSetting{ColorGreen, EffectWhite}, 0x45},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.led.packed(), tt.led.String())
	}
}

func TestLayerFramesDelay(t *testing.T) {
	layer := Layer{Index: 1, DelayMS: 50}
	frames, err := LayerFrames(layer)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, want(0x03, 0xFD, 0x00, 0x01, 0x05, 0x32, 0x00), frames[0].Data)

	layer.DelayMS = 500
	frames, err = LayerFrames(layer)
	require.NoError(t, err)
	assert.Equal(t, want(0x03, 0xFD, 0x00, 0x01, 0x05, 0xF4, 0x01), frames[0].Data)
}

func TestLayerFramesZeroDelaySuppressed(t *testing.T) {
	layer := Layer{Index: 1, DelayMS: 0}
	frames, err := LayerFrames(layer)
	require.NoError(t, err)
	assert.Empty(t, frames)
}

func TestLayerFramesNoLedWhenUnset(t *testing.T) {
	layer := Layer{
		Index:    1,
		Bindings: map[ButtonID]Binding{ButtonKey1: mustBinding(t, "a")},
	}
	frames, err := LayerFrames(layer)
	require.NoError(t, err)
	for _, f := range frames {
		assert.NotEqual(t, opLayer, f.Data[1], "no LED frame without a setting")
	}
}

// Writes come out in canonical button order regardless of map iteration,
// then the LED frame, then the delay frame, each followed by its own commit.
func TestLayerFramesOrdering(t *testing.T) {
	led := LedSetting{Color: ColorRed, Effect: EffectStatic}
	layer := Layer{
		Index: 1,
		Bindings: map[ButtonID]Binding{
			ButtonKnob2Right: mustBinding(t, "right"),
			ButtonKey1:       mustBinding(t, "a"),
			ButtonKey7:       mustBinding(t, "g"),
		},
		Led:     &led,
		DelayMS: 25,
	}
	frames, err := LayerFrames(layer)
	require.NoError(t, err)
	require.Len(t, frames, 10)

	assert.Equal(t, byte(ButtonKey1), frames[0].Data[2])
	assert.Equal(t, byte(ButtonKey7), frames[2].Data[2])
	assert.Equal(t, byte(ButtonKnob2Right), frames[4].Data[2])
	assert.Equal(t, opLayer, frames[6].Data[1])
	assert.Equal(t, opWrite, frames[8].Data[1])
	assert.Equal(t, byte(0x05), frames[8].Data[4], "delay subtype")
	for i := 1; i < len(frames); i += 2 {
		assert.Equal(t, want(0x03, 0xFD, 0xFE, 0xFF), frames[i].Data, "frame %d must be a commit", i)
	}
}

func TestLayerFramesDeterministic(t *testing.T) {
	led := LedSetting{Color: ColorBlue, Effect: EffectWave}
	layer := Layer{
		Index: 2,
		Bindings: map[ButtonID]Binding{
			ButtonKey4:      mustBinding(t, "ctrl+z"),
			ButtonKey9:      mustBinding(t, []interface{}{"a", "b"}),
			ButtonKnob1Left: mustBinding(t, "volume_down"),
		},
		Led:     &led,
		DelayMS: 100,
	}
	first, err := LayerFrames(layer)
	require.NoError(t, err)
	second, err := LayerFrames(layer)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEveryFrameCarriesSettleInterval(t *testing.T) {
	led := LedSetting{Color: ColorGreen, Effect: EffectRipple}
	layers := []Layer{{
		Index:    1,
		Bindings: map[ButtonID]Binding{ButtonKey1: mustBinding(t, "a")},
		Led:      &led,
		DelayMS:  10,
	}}
	frames, err := ProgramFrames(layers, true)
	require.NoError(t, err)
	require.NotEmpty(t, frames)
	for i, f := range frames {
		assert.Equal(t, 200*time.Millisecond, f.Settle, "frame %d", i)
	}
}

// Full pipeline for the reference capture: one layer with a cyan static
// backlight, a 50 ms macro delay and "a" on key 1 must produce exactly the
// frame sequence the vendor tool sends for that config.
func TestProgramFramesFromConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"layers": {
			"1": {
				"led": {"color": "cyan", "effect": "static"},
				"delay": 50,
				"key1": "a"
			}
		}
	}`))
	require.NoError(t, err)

	frames, err := ProgramFrames(cfg.Layers, true)
	require.NoError(t, err)
	require.Len(t, frames, 7)

	commit := want(0x03, 0xFD, 0xFE, 0xFF)
	ledWant := want(0x03, 0xFE, 0xB0, 0x01, 0x08)
	ledWant[10] = 0x01
	ledWant[12] = 0x51

	assert.Equal(t,
		want(0x03, 0xFD, 0x01, 0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x04),
		frames[0].Data, "key1 write")
	assert.Equal(t, commit, frames[1].Data)
	assert.Equal(t, ledWant, frames[2].Data, "led frame")
	assert.Equal(t, commit, frames[3].Data)
	assert.Equal(t, want(0x03, 0xFD, 0x00, 0x01, 0x05, 0x32, 0x00), frames[4].Data, "delay frame")
	assert.Equal(t, commit, frames[5].Data)
	assert.Equal(t, want(0x03, 0xEF, 0x03), frames[6].Data, "save-to-flash")
}

func TestProgramFramesLayerOrderAndSave(t *testing.T) {
	layers := []Layer{
		{Index: 3, Bindings: map[ButtonID]Binding{ButtonKey1: mustBinding(t, "c")}},
		{Index: 1, Bindings: map[ButtonID]Binding{ButtonKey1: mustBinding(t, "a")}},
	}
	frames, err := ProgramFrames(layers, true)
	require.NoError(t, err)
	require.Len(t, frames, 5)

	assert.Equal(t, byte(0x01), frames[0].Data[3], "layer 1 first")
	assert.Equal(t, byte(0x03), frames[2].Data[3], "layer 3 after")
	assert.Equal(t, want(0x03, 0xEF, 0x03), frames[4].Data, "save-to-flash last")
}

func TestProgramFramesNoPersist(t *testing.T) {
	layers := []Layer{{Index: 1, Bindings: map[ButtonID]Binding{ButtonKey1: mustBinding(t, "a")}}}
	frames, err := ProgramFrames(layers, false)
	require.NoError(t, err)
	for _, f := range frames {
		assert.NotEqual(t, opFlash, f.Data[1])
	}
}

func TestProgramFramesRejectsDuplicateLayer(t *testing.T) {
	layers := []Layer{{Index: 1}, {Index: 1}}
	_, err := ProgramFrames(layers, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLayerFramesValidation(t *testing.T) {
	tests := []struct {
		name  string
		layer Layer
	}{
		{"layer 0", Layer{Index: 0}},
		{"layer 4", Layer{Index: 4}},
		{"negative delay", Layer{Index: 1, DelayMS: -1}},
		{"delay overflow", Layer{Index: 1, DelayMS: 0x10000}},
		{"empty binding", Layer{Index: 1, Bindings: map[ButtonID]Binding{ButtonKey1: {}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LayerFrames(tt.layer)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestSendFramesAbortsOnFirstError(t *testing.T) {
	pad := &scriptedPad{failAfter: 2}
	frames, err := ProgramFrames([]Layer{{
		Index:    1,
		Bindings: map[ButtonID]Binding{ButtonKey1: mustBinding(t, "a"), ButtonKey2: mustBinding(t, "b")},
	}}, false)
	require.NoError(t, err)
	require.Len(t, frames, 4)

	err = SendFrames(pad, frames)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Len(t, pad.sent, 2, "nothing sent past the failure")
}
