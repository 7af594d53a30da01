package tickets

import "fmt"

// Select keeps the tickets required by today. Tickets without a required-by
// date never match.
func Select(tickets []Processed, today Date) []Processed {
	due := []Processed{}
	for _, t := range tickets {
		if t.RequiredBy == nil || *t.RequiredBy != today {
			continue
		}
		due = append(due, t)
	}
	return due
}

// SelectAndFormat keeps the tickets required by today and formats each as a
// post line.
func SelectAndFormat(tickets []Processed, today Date) []string {
	due := Select(tickets, today)
	lines := make([]string, 0, len(due))
	for _, t := range due {
		lines = append(lines, FormatLine(t))
	}
	return lines
}

// FormatLine renders "<number> - <at>assignee</at> <subject>".
func FormatLine(t Processed) string {
	return FormatLineWith(t, func(s string) string { return s })
}

// FormatLineWith is FormatLine with escape applied to the assignee and
// subject, for output formats where ticket text could be read as markup.
func FormatLineWith(t Processed, escape func(string) string) string {
	return fmt.Sprintf("%d - <at>%s</at> %s", t.Number, escape(t.Assignee), escape(t.Subject))
}
