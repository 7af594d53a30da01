package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/oit-helpdesk/required-today/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure Issuetrak connection settings",
	Long:  `Interactively set up the Issuetrak API URL, API key, and the email domain used for mentions. Settings are saved to ~/.required-today.yaml; filter lists can be edited in that file afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Load existing config for defaults
		existing, _ := config.Load(cfgFile)

		url := prompt(reader, "Issuetrak API URL", existing.URL, "e.g., https://helpdesk.example.edu/api/v1")

		// API key (masked input)
		fmt.Print("Issuetrak API key (input hidden): ")
		keyBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // newline after hidden input
		if err != nil {
			return fmt.Errorf("reading API key: %w", err)
		}
		apiKey := strings.TrimSpace(string(keyBytes))
		if apiKey == "" {
			apiKey = existing.APIKey
		}

		domain := prompt(reader, "Email domain for mentions", existing.EmailDomain, "")

		cfg := existing
		cfg.URL = url
		cfg.APIKey = apiKey
		cfg.EmailDomain = domain

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		if err := config.Save(cfg, path); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

// prompt asks for a value, offering the current one as the default.
func prompt(reader *bufio.Reader, label, current, hint string) string {
	switch {
	case current != "":
		fmt.Printf("%s [%s]: ", label, current)
	case hint != "":
		fmt.Printf("%s (%s): ", label, hint)
	default:
		fmt.Printf("%s: ", label)
	}
	value, _ := reader.ReadString('\n')
	value = strings.TrimSpace(value)
	if value == "" {
		return current
	}
	return value
}

func init() {
	rootCmd.AddCommand(configCmd)
}
