package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hexgrave/padctl/macropad"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the pad's current configuration and print it",
	Run: func(cmd *cobra.Command, args []string) {
		pad, cleanup, err := openPad()
		if err != nil {
			log.Fatal(err)
		}
		defer cleanup()

		if !pad.CanRead() {
			log.Fatal("device has no IN endpoint, cannot read its configuration")
		}

		layers, err := macropad.ReadAllLayers(pad)
		if err != nil {
			log.Fatal(err)
		}
		for layer := 1; layer <= macropad.NumLayers; layer++ {
			fmt.Printf("layer %d:\n", layer)
			bindings := layers[layer]
			if len(bindings) == 0 {
				fmt.Println("  (no bindings)")
				continue
			}
			for _, btn := range macropad.ButtonOrder {
				if b, ok := bindings[btn]; ok {
					fmt.Printf("  %s: %s\n", btn, b)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}
