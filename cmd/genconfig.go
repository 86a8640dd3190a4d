package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hexgrave/padctl/macropad"
)

var genconfigCmd = &cobra.Command{
	Use:   "genconfig",
	Short: "Write a default config file to edit",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(configPath); err == nil {
			log.Fatalf("%s already exists, not overwriting it", configPath)
		}
		if err := macropad.WriteDefaultConfig(configPath); err != nil {
			log.Fatal(err)
		}
		log.Infof("default config written to %s", configPath)
		log.Infof("edit it, then run: padctl -c %s", configPath)
	},
}

func init() {
	rootCmd.AddCommand(genconfigCmd)
}
