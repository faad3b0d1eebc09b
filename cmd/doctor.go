package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhcgn/mail-triage/ollama"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check config, endpoint reachability and model availability",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			pterm.Error.Printf("Config: %v\n", err)
			return fmt.Errorf("configuration check failed")
		}
		pterm.Success.Println("Config: valid")

		client := ollama.NewClient(cfg.Ollama.Endpoint, cfg.Ollama.Model, cfg.Timeout())

		models, err := client.Tags(cmd.Context())
		if err != nil {
			pterm.Error.Printf("Endpoint %s: %v\n", cfg.Ollama.Endpoint, err)
			pterm.Info.Println("Start the model server with: ollama serve")
			return fmt.Errorf("endpoint check failed")
		}
		pterm.Success.Printf("Endpoint %s: reachable\n", cfg.Ollama.Endpoint)

		if !modelAvailable(models, cfg.Ollama.Model) {
			pterm.Error.Printf("Model %q not found on the endpoint\n", cfg.Ollama.Model)
			pterm.Info.Printf("Pull it with: ollama pull %s\n", cfg.Ollama.Model)
			return fmt.Errorf("model check failed")
		}
		pterm.Success.Printf("Model %q: available\n", cfg.Ollama.Model)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// modelAvailable matches the configured model against the endpoint's tag
// list. Ollama tags carry a variant suffix ("llama3:latest"), so a bare
// configured name matches any variant of it.
func modelAvailable(models []string, want string) bool {
	for _, m := range models {
		if m == want {
			return true
		}
		if name, _, ok := strings.Cut(m, ":"); ok && name == want {
			return true
		}
	}
	return false
}
