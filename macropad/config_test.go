package macropad

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"layers": {
			"1": {
				"_comment": "daily driver",
				"led": {"color": "cyan", "effect": "wave"},
				"delay": 50,
				"key1": "a",
				"key2": "ctrl+shift+t",
				"key3": ["ctrl+c", "ctrl+v", "enter"],
				"knob1_left": "volume_down"
			},
			"3": {
				"key1": "f13"
			}
		}
	}`))
	require.NoError(t, err)
	require.Len(t, cfg.Layers, 2)

	l1 := cfg.Layers[0]
	assert.Equal(t, 1, l1.Index)
	assert.Equal(t, 50, l1.DelayMS)
	require.NotNil(t, l1.Led)
	assert.Equal(t, LedSetting{Color: ColorCyan, Effect: EffectWave}, *l1.Led)
	require.Len(t, l1.Bindings, 4)
	assert.True(t, l1.Bindings[ButtonKey1].Equal(mustBinding(t, "a")))
	assert.True(t, l1.Bindings[ButtonKey3].Equal(mustBinding(t, []interface{}{"ctrl+c", "ctrl+v", "enter"})))
	assert.True(t, l1.Bindings[ButtonKnob1Left].Equal(mustBinding(t, "volume_down")))

	l3 := cfg.Layers[1]
	assert.Equal(t, 3, l3.Index)
	assert.Nil(t, l3.Led)
	assert.Zero(t, l3.DelayMS)
}

func TestParseConfigLedShorthand(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"layers": {"1": {"led": "blue"}}}`))
	require.NoError(t, err)
	require.NotNil(t, cfg.Layers[0].Led)
	assert.Equal(t, LedSetting{Color: ColorBlue, Effect: EffectStatic}, *cfg.Layers[0].Led)
}

func TestParseConfigLedDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"layers": {"1": {"led": {"effect": "ripple"}}}}`))
	require.NoError(t, err)
	assert.Equal(t, LedSetting{Color: ColorRed, Effect: EffectRipple}, *cfg.Layers[0].Led)

	cfg, err = ParseConfig([]byte(`{"layers": {"1": {"led": {}}}}`))
	require.NoError(t, err)
	assert.Equal(t, LedSetting{Color: ColorRed, Effect: EffectStatic}, *cfg.Layers[0].Led)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{`},
		{"no layers", `{"layers": {}}`},
		{"layer 0", `{"layers": {"0": {}}}`},
		{"layer 4", `{"layers": {"4": {}}}`},
		{"layer not a number", `{"layers": {"one": {}}}`},
		{"unknown button", `{"layers": {"1": {"key13": "a"}}}`},
		{"unknown key", `{"layers": {"1": {"key1": "bogus"}}}`},
		{"unknown color", `{"layers": {"1": {"led": "magenta"}}}`},
		{"unknown effect", `{"layers": {"1": {"led": {"color": "red", "effect": "strobe"}}}}`},
		{"led wrong type", `{"layers": {"1": {"led": 3}}}`},
		{"negative delay", `{"layers": {"1": {"delay": -5}}}`},
		{"delay overflow", `{"layers": {"1": {"delay": 70000}}}`},
		{"delay not a number", `{"layers": {"1": {"delay": "fast"}}}`},
		{"binding wrong type", `{"layers": {"1": {"key1": 7}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.json))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestParseConfigUnknownButtonDetail(t *testing.T) {
	_, err := ParseConfig([]byte(`{"layers": {"1": {"key99": "a"}}}`))
	var unknown *UnknownButtonError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "key99", unknown.Name)
}

func TestDefaultConfigParsesAndEncodes(t *testing.T) {
	cfg, err := ParseConfig([]byte(DefaultConfigJSON))
	require.NoError(t, err)
	require.Len(t, cfg.Layers, NumLayers)
	for _, l := range cfg.Layers {
		assert.Len(t, l.Bindings, len(ButtonOrder), "layer %d binds every control", l.Index)
		require.NotNil(t, l.Led, "layer %d", l.Index)
	}
	assert.True(t, cfg.Layers[0].Bindings[ButtonKey1].Equal(mustBinding(t, "a")))
	assert.True(t, cfg.Layers[1].Bindings[ButtonKey1].Equal(mustBinding(t, "f1")))
	assert.True(t, cfg.Layers[2].Bindings[ButtonKey12].Equal(mustBinding(t, "f24")))

	_, err = ProgramFrames(cfg.Layers, true)
	assert.NoError(t, err)
}

func TestWriteAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macropad.json")
	require.NoError(t, WriteDefaultConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Layers, NumLayers)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadConfigReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"layers": {"9": {}}}`), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}
