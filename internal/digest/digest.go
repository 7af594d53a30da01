// Package digest runs one pass of the required-today pipeline: fetch open
// tickets and lookups, transform, and select the lines due on a given day.
package digest

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oit-helpdesk/required-today/internal/issuetrak"
	"github.com/oit-helpdesk/required-today/internal/tickets"
)

// Source is the ticketing service as seen by a run.
type Source interface {
	FetchOpenTickets() ([]issuetrak.Ticket, error)
	FetchLookup(domain issuetrak.Domain) (issuetrak.Lookup, error)
}

// Digest is the outcome of one successful run.
type Digest struct {
	RunID   string
	Date    tickets.Date
	Lines   []string
	Tickets []tickets.Processed // the tickets behind Lines, same order
	Fetched int                 // open tickets returned by the service
	Kept    int                 // tickets left after policy filters
}

// Builder produces a Digest from a Source.
type Builder struct {
	Source Source
	Policy tickets.Policy
	Logger *zap.Logger
}

// Build runs the pipeline for today. Any failure aborts the run and no
// partial digest is returned.
func (b *Builder) Build(today tickets.Date) (*Digest, error) {
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID), zap.Stringer("date", today))

	raw, err := b.Source.FetchOpenTickets()
	if err != nil {
		return nil, fmt.Errorf("fetching open tickets: %w", err)
	}
	logger.Info("fetched open tickets", zap.Int("count", len(raw)))

	subStatuses, err := b.Source.FetchLookup(issuetrak.SubStatuses)
	if err != nil {
		return nil, fmt.Errorf("fetching substatuses: %w", err)
	}
	issueTypes, err := b.Source.FetchLookup(issuetrak.IssueTypes)
	if err != nil {
		return nil, fmt.Errorf("fetching issue types: %w", err)
	}

	processed, err := tickets.Transform(raw, subStatuses, issueTypes, b.Policy)
	if err != nil {
		return nil, fmt.Errorf("processing tickets: %w", err)
	}
	logger.Info("applied ticket filters",
		zap.Int("kept", len(processed)),
		zap.Strings("allowed_substatuses", b.Policy.AllowedSubStatuses),
		zap.Strings("excluded_issue_types", b.Policy.ExcludedIssueTypes),
	)

	due := tickets.Select(processed, today)
	lines := make([]string, 0, len(due))
	for _, t := range due {
		lines = append(lines, tickets.FormatLine(t))
	}
	logger.Info("selected tickets required today", zap.Int("count", len(lines)))

	return &Digest{
		RunID:   runID,
		Date:    today,
		Lines:   lines,
		Tickets: due,
		Fetched: len(raw),
		Kept:    len(processed),
	}, nil
}
