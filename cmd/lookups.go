package cmd

import (
	"fmt"
	"sort"

	"github.com/oit-helpdesk/required-today/internal/issuetrak"
	"github.com/spf13/cobra"
)

var lookupsCmd = &cobra.Command{
	Use:   "lookups",
	Short: "Print the substatus and issue type tables",
	Long:  `Fetches the substatus and issue type lookup tables from Issuetrak. Useful when choosing names for allowed_substatuses and excluded_issue_types.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		client := issuetrak.NewClient(appConfig, logger)
		out := cmd.OutOrStdout()

		for i, domain := range []issuetrak.Domain{issuetrak.SubStatuses, issuetrak.IssueTypes} {
			lookup, err := client.FetchLookup(domain)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", domain, err)
			}

			ids := make([]int, 0, len(lookup))
			for id := range lookup {
				ids = append(ids, id)
			}
			sort.Ints(ids)

			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s:\n", domain)
			for _, id := range ids {
				fmt.Fprintf(out, "  %4d  %s\n", id, lookup[id])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupsCmd)
}
