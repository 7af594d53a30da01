// Package tickets turns raw Issuetrak records into the lines of the daily post.
package tickets

import (
	"fmt"
	"strings"

	"github.com/oit-helpdesk/required-today/internal/issuetrak"
)

// Unassigned is the assignee text for tickets nobody owns.
const Unassigned = "None"

// Policy decides which tickets make it into the post and how assignees are
// addressed.
type Policy struct {
	EmailDomain        string
	ExcludedIssueTypes []string
	AllowedSubStatuses []string
}

// Processed is a ticket with its lookups resolved and dates narrowed.
type Processed struct {
	Number     int
	Submitted  Date
	Subject    string
	IssueType  string
	Assignee   string // contact address, or Unassigned
	SubStatus  string
	RequiredBy *Date
}

// LookupError reports a ticket referencing an ID missing from its lookup table.
type LookupError struct {
	Ticket int
	Domain issuetrak.Domain
	ID     int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("ticket %d: %s id %d not found", e.Ticket, e.Domain, e.ID)
}

// Transform resolves lookups, normalizes assignees and dates, and applies the
// policy filters. Input order is preserved. Every ticket is resolved before
// filtering, so an unknown ID fails the call even for a ticket that would
// have been filtered out.
func Transform(raw []issuetrak.Ticket, subStatuses, issueTypes issuetrak.Lookup, policy Policy) ([]Processed, error) {
	resolved := make([]Processed, 0, len(raw))
	for _, t := range raw {
		p, err := process(t, subStatuses, issueTypes, policy.EmailDomain)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, p)
	}

	excluded := toSet(policy.ExcludedIssueTypes)
	allowed := toSet(policy.AllowedSubStatuses)

	kept := make([]Processed, 0, len(resolved))
	for _, p := range resolved {
		if excluded[p.IssueType] {
			continue
		}
		if !allowed[p.SubStatus] {
			continue
		}
		kept = append(kept, p)
	}
	return kept, nil
}

func process(t issuetrak.Ticket, subStatuses, issueTypes issuetrak.Lookup, emailDomain string) (Processed, error) {
	subStatus, ok := subStatuses[t.SubStatusID]
	if !ok {
		return Processed{}, &LookupError{Ticket: t.IssueNumber, Domain: issuetrak.SubStatuses, ID: t.SubStatusID}
	}
	issueType, ok := issueTypes[t.IssueTypeID]
	if !ok {
		return Processed{}, &LookupError{Ticket: t.IssueNumber, Domain: issuetrak.IssueTypes, ID: t.IssueTypeID}
	}

	submitted, err := parseTimestamp(t.SubmittedDate)
	if err != nil {
		return Processed{}, fmt.Errorf("ticket %d: parsing SubmittedDate: %w", t.IssueNumber, err)
	}

	var requiredBy *Date
	if t.RequiredByDate != nil {
		d, err := parseTimestamp(*t.RequiredByDate)
		if err != nil {
			return Processed{}, fmt.Errorf("ticket %d: parsing RequiredByDate: %w", t.IssueNumber, err)
		}
		requiredBy = &d
	}

	return Processed{
		Number:     t.IssueNumber,
		Submitted:  submitted,
		Subject:    t.Subject,
		IssueType:  issueType,
		Assignee:   contactAddress(t.AssignedTo, emailDomain),
		SubStatus:  subStatus,
		RequiredBy: requiredBy,
	}, nil
}

// contactAddress turns an Issuetrak user ID into the address chat mentions
// resolve against. An empty user ID counts as unassigned rather than
// producing a bare "@domain".
func contactAddress(user *string, emailDomain string) string {
	if user == nil || *user == "" {
		return Unassigned
	}
	return strings.ToLower(*user) + "@" + strings.TrimPrefix(emailDomain, "@")
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
