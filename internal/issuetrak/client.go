package issuetrak

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oit-helpdesk/required-today/internal/config"
)

const timestampLayout = "2006-01-02T15:04:05.0000000Z"

// Client is an Issuetrak REST API v1 client.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	logger     *zap.Logger

	now       func() time.Time
	requestID func() string
}

// NewClient creates a new Issuetrak client from the given config.
func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
		now:        time.Now,
		requestID:  uuid.NewString,
	}
}

// FetchOpenTickets pages through every ticket whose status is Open.
// Paging stops once the running CountForPage sum reaches TotalCount; a
// server that over-delivers still terminates.
func (c *Client) FetchOpenTickets() ([]Ticket, error) {
	req := openTicketsQuery(c.pageSize)

	var tickets []Ticket
	received := 0
	for {
		var page SearchPage
		if err := c.do(http.MethodPost, "/issues/search/", req, &page); err != nil {
			return nil, err
		}

		tickets = append(tickets, page.Collection...)
		received += page.CountForPage

		c.logger.Debug("fetched ticket page",
			zap.Int("page_index", req.PageIndex),
			zap.Int("count_for_page", page.CountForPage),
			zap.Int("received", received),
			zap.Int("total_count", page.TotalCount),
		)

		if received >= page.TotalCount {
			break
		}
		if page.CountForPage <= 0 {
			return nil, &IntegrityError{Domain: "issues", Reported: page.TotalCount, Parsed: received}
		}
		req.PageIndex++
	}

	return tickets, nil
}

// FetchLookup fetches the ID to name table for a lookup domain.
func (c *Client) FetchLookup(domain Domain) (Lookup, error) {
	lookup := Lookup{}
	var total, entries int

	switch domain {
	case SubStatuses:
		var resp subStatusesResponse
		if err := c.do(http.MethodGet, "/substatuses", nil, &resp); err != nil {
			return nil, err
		}
		for _, s := range resp.Collection {
			lookup[s.SubStatusID] = s.SubStatusName
		}
		total, entries = resp.TotalCount, len(resp.Collection)
	case IssueTypes:
		var resp issueTypesResponse
		if err := c.do(http.MethodGet, "/issuetypes", nil, &resp); err != nil {
			return nil, err
		}
		for _, t := range resp.Collection {
			lookup[t.IssueTypeID] = t.IssueTypeName
		}
		total, entries = resp.TotalCount, len(resp.Collection)
	default:
		return nil, fmt.Errorf("unknown lookup domain %q", domain)
	}

	// Duplicate IDs collapse in the map and show up as a mismatch too.
	if total != entries || total != len(lookup) {
		return nil, &IntegrityError{Domain: string(domain), Reported: total, Parsed: len(lookup)}
	}

	c.logger.Debug("fetched lookup", zap.String("domain", string(domain)), zap.Int("entries", len(lookup)))
	return lookup, nil
}

// do sends a signed request and decodes the JSON response into out.
func (c *Client) do(method, path string, payload any, out any) error {
	op := method + " " + path

	var body []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshalling payload: %w", err)
		}
		body = data
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	c.setHeaders(req, body)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request, body []byte) {
	requestID := c.requestID()
	timestamp := c.now().UTC().Format(timestampLayout)

	req.Header.Set("X-IssueTrak-API-Request-ID", requestID)
	req.Header.Set("X-IssueTrak-API-Timestamp", timestamp)
	req.Header.Set("X-IssueTrak-API-Authorization", Sign(c.apiKey, req.Method, requestID, timestamp, req.URL, body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// Sign computes the Issuetrak request signature: a base64 HMAC-SHA512 over
// the method, request ID, timestamp, lowercased path, query and body, one per
// line.
func Sign(apiKey, method, requestID, timestamp string, u *url.URL, body []byte) string {
	message := strings.Join([]string{
		strings.ToUpper(method),
		requestID,
		timestamp,
		strings.ToLower(u.EscapedPath()),
		u.RawQuery,
		string(body),
	}, "\n")

	mac := hmac.New(sha512.New, []byte(apiKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
