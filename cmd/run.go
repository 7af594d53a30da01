package cmd

import (
	"fmt"
	"time"

	"github.com/oit-helpdesk/required-today/internal/digest"
	"github.com/oit-helpdesk/required-today/internal/issuetrak"
	"github.com/oit-helpdesk/required-today/internal/post"
	"github.com/oit-helpdesk/required-today/internal/tickets"
	"github.com/spf13/cobra"
)

var (
	runDate   string
	runFormat string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build today's post of scheduled tickets",
	Long: `Fetches every open Issuetrak ticket, keeps the scheduled ones required today,
and prints the post to stdout. Nothing is printed if any step fails.

Formats:
  html      post body with <at> mentions, ready to paste into Teams (default)
  markdown  the rendered template before HTML conversion
  lines     one ticket per line, no template`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		switch runFormat {
		case "html", "markdown", "lines":
		default:
			return fmt.Errorf("unknown format %q (want html, markdown or lines)", runFormat)
		}

		today, err := resolveToday()
		if err != nil {
			return err
		}

		tmpl, err := post.LoadTemplate(appConfig.Template)
		if err != nil {
			return err
		}

		builder := &digest.Builder{
			Source: issuetrak.NewClient(appConfig, logger),
			Policy: policy(),
			Logger: logger,
		}
		d, err := builder.Build(today)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if runFormat == "lines" {
			for _, line := range d.Lines {
				fmt.Fprintln(out, line)
			}
			return nil
		}

		md, err := post.Render(post.Data{Date: d.Date.String(), Lines: post.Lines(d.Tickets)}, tmpl)
		if err != nil {
			return fmt.Errorf("rendering post: %w", err)
		}
		if runFormat == "markdown" {
			fmt.Fprint(out, md)
			return nil
		}

		html, err := post.ToHTML(md)
		if err != nil {
			return fmt.Errorf("rendering post: %w", err)
		}
		fmt.Fprint(out, html)
		return nil
	},
}

// resolveToday honors --date, otherwise takes the current date in the
// configured timezone.
func resolveToday() (tickets.Date, error) {
	if runDate != "" {
		return tickets.ParseDate(runDate)
	}
	loc, err := appConfig.Location()
	if err != nil {
		return tickets.Date{}, err
	}
	return tickets.DateOf(time.Now().In(loc)), nil
}

func init() {
	runCmd.Flags().StringVar(&runDate, "date", "", "treat this day (YYYY-MM-DD) as today")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "html", "output format: html, markdown or lines")
	rootCmd.AddCommand(runCmd)
}
