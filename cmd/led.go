package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hexgrave/padctl/macropad"
)

var ledCmd = &cobra.Command{
	Use:   "led <color> [effect]",
	Short: "Set the LED color and effect on all layers without touching bindings",
	Long: `Set the backlight on all three layers.

Colors: off, red, orange, yellow, green, cyan, blue, purple
Effects: off, static, ripple, wave, reactive, white (default: static)`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		color, err := macropad.ResolveLedColor(args[0])
		if err != nil {
			log.Fatal(err)
		}
		effect := macropad.EffectStatic
		if len(args) > 1 {
			if effect, err = macropad.ResolveLedEffect(args[1]); err != nil {
				log.Fatal(err)
			}
		}

		led := macropad.LedSetting{Color: color, Effect: effect}
		layers := make([]macropad.Layer, 0, macropad.NumLayers)
		for i := 1; i <= macropad.NumLayers; i++ {
			setting := led
			layers = append(layers, macropad.Layer{Index: i, Led: &setting})
		}
		frames, err := macropad.ProgramFrames(layers, true)
		if err != nil {
			log.Fatal(err)
		}

		pad, cleanup, err := openPad()
		if err != nil {
			log.Fatal(err)
		}
		defer cleanup()

		log.Infof("setting LEDs on all layers: %s", led)
		if err := macropad.SendFrames(pad, frames); err != nil {
			log.Fatalf("programming aborted, device state is inconsistent: %v", err)
		}
		log.Info("done")
	},
}

func init() {
	rootCmd.AddCommand(ledCmd)
}
