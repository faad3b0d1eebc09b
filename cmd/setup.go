package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhcgn/mail-triage/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the data directory and a starter config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}

		created, err := config.WriteTemplate(path)
		if err != nil {
			return err
		}

		if created {
			pterm.Success.Printf("Created config at %s\n", path)
		} else {
			pterm.Info.Printf("Config already exists at %s\n", path)
		}

		pterm.Println()
		pterm.Info.Println("Next steps:")
		pterm.Info.Println("  1. Edit the config: set your name and triage instructions")
		pterm.Info.Println("  2. Make sure Ollama is running: ollama serve")
		pterm.Info.Println("  3. Verify the setup: mail-triage doctor")
		pterm.Info.Println("  4. Point your mail client hook at: mail-triage <message file>")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
