package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hexgrave/padctl/macropad"
)

var (
	configPath  string
	capturePath string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "padctl",
	Short: "Program the 12-key + 2-knob USB macro pad (1189:8840)",
	Long: `padctl programs the 12-key + 2-knob macro pad over USB HID.

Key bindings, macros, per-layer LED settings and macro delays come from a
JSON config file. Running padctl without a subcommand programs the pad from
that file; see the subcommands for reading the current config back, LED-only
changes and generating a starter config.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		runProgram()
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "macropad.json", "JSON config file")
	rootCmd.PersistentFlags().StringVar(&capturePath, "capture", "", "log every sent report to this hex file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// openPad opens the device session and attaches the packet capture if one
// was requested. The returned cleanup closes both.
func openPad() (*macropad.LocalMacroPad, func(), error) {
	pad, err := macropad.NewLocalMacroPad()
	if err != nil {
		return nil, nil, err
	}
	var capture *macropad.Capture
	if capturePath != "" {
		capture, err = macropad.NewCapture(capturePath)
		if err != nil {
			pad.Close()
			return nil, nil, err
		}
		pad.SetCapture(capture)
		log.Infof("capturing sent reports to %s", capturePath)
	}
	cleanup := func() {
		if capture != nil {
			if err := capture.Close(); err != nil {
				log.Warnf("closing capture: %v", err)
			}
		}
		pad.Close()
	}
	return pad, cleanup, nil
}
