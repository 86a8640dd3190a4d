package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hexgrave/padctl/macropad"
)

var (
	noSave   bool
	noVerify bool
)

var programCmd = &cobra.Command{
	Use:   "program",
	Short: "Program the pad from the JSON config file (the default action)",
	Run: func(cmd *cobra.Command, args []string) {
		runProgram()
	},
}

func init() {
	programCmd.Flags().BoolVar(&noSave, "no-save", false, "don't persist to flash (config is lost on power-cycle)")
	programCmd.Flags().BoolVar(&noVerify, "no-verify", false, "skip reading back layer 1 after programming")
	rootCmd.AddCommand(programCmd)
}

func runProgram() {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Infof("config file %s not found, generating a default one", configPath)
		if err := macropad.WriteDefaultConfig(configPath); err != nil {
			log.Fatal(err)
		}
		log.Infof("edit %s to set your key mappings, then run padctl again", configPath)
		return
	}

	cfg, err := macropad.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// The whole run is encoded before the device is opened: a config error
	// must never leave the pad partially programmed.
	frames, err := macropad.ProgramFrames(cfg.Layers, !noSave)
	if err != nil {
		log.Fatal(err)
	}

	bindings := 0
	for _, l := range cfg.Layers {
		bindings += len(l.Bindings)
	}
	log.Infof("loaded %s: %d layer(s), %d binding(s), %d frame(s) to send",
		configPath, len(cfg.Layers), bindings, len(frames))
	for _, l := range cfg.Layers {
		describeLayer(l)
	}

	pad, cleanup, err := openPad()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	if err := macropad.SendFrames(pad, frames); err != nil {
		// No rollback exists; the pad may be partially programmed now.
		log.Fatalf("programming aborted, device state is inconsistent: %v", err)
	}
	log.Infof("wrote %d frame(s)", len(frames))
	if noSave {
		log.Info("not saved to flash, the config is lost when the pad loses power")
	}

	if !noVerify {
		verifyLayer1(pad, cfg)
	}
}

func describeLayer(l macropad.Layer) {
	log.Infof("layer %d: %d binding(s)", l.Index, len(l.Bindings))
	for _, btn := range macropad.ButtonOrder {
		if b, ok := l.Bindings[btn]; ok {
			log.Infof("  %s -> %s", btn, b)
		}
	}
	if l.Led != nil {
		log.Infof("  led: %s", *l.Led)
	}
	if l.DelayMS > 0 {
		log.Infof("  macro delay: %d ms", l.DelayMS)
	}
}

// verifyLayer1 reads layer 1 back and compares it against what was just
// written. Mismatches are warnings, not fatal: the frames were already
// acknowledged by the transport.
func verifyLayer1(pad *macropad.LocalMacroPad, cfg *macropad.Config) {
	if !pad.CanRead() {
		log.Info("device has no IN endpoint, skipping verification")
		return
	}
	var expected *macropad.Layer
	for i := range cfg.Layers {
		if cfg.Layers[i].Index == 1 {
			expected = &cfg.Layers[i]
			break
		}
	}
	if expected == nil {
		return
	}

	log.Info("verifying writes (reading back layer 1)")
	actual, err := macropad.ReadLayer(pad, 1)
	if err != nil {
		log.Warnf("verify read failed: %v", err)
		return
	}
	ok := true
	for btn, want := range expected.Bindings {
		got, bound := actual[btn]
		if !bound {
			log.Warnf("verify: %s reads back unbound, expected %s", btn, want)
			ok = false
			continue
		}
		if !got.Equal(want) {
			log.Warnf("verify: %s reads back %s, expected %s", btn, got, want)
			ok = false
		}
	}
	if ok {
		log.Info("all layer 1 bindings verified")
	}
}
