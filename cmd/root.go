package cmd

import (
	"fmt"
	"os"

	"github.com/oit-helpdesk/required-today/internal/config"
	"github.com/oit-helpdesk/required-today/internal/logging"
	"github.com/oit-helpdesk/required-today/internal/tickets"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	appConfig config.Config
	logger    = zap.NewNop()
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:          "required-today",
	Short:        "Daily post of scheduled helpdesk tickets due today",
	Long:         `Queries Issuetrak for open tickets, keeps the scheduled ones that are required today, and prints a post mentioning each assignee for the support team chat.`,
	Version:      version,
	SilenceUsage: true,
}

// Execute runs the root command. Cobra reports any error on stderr.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.required-today.yaml)")
}

// loadConfig loads and validates configuration and sets up logging. Commands
// that need Issuetrak access call this.
func loadConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'required-today config' to set up credentials", err)
	}
	appConfig = cfg

	l, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	logger = l
	return nil
}

// policy is the ticket filter policy from the loaded config.
func policy() tickets.Policy {
	return tickets.Policy{
		EmailDomain:        appConfig.EmailDomain,
		ExcludedIssueTypes: appConfig.ExcludedIssueTypes,
		AllowedSubStatuses: appConfig.AllowedSubStatuses,
	}
}
