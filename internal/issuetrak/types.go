package issuetrak

// Ticket is an issue record from the Issuetrak search API, projected to the
// fields the daily post needs. Other fields in the response are dropped.
type Ticket struct {
	IssueNumber    int     `json:"IssueNumber"`
	SubmittedDate  string  `json:"SubmittedDate"`
	Subject        string  `json:"Subject"`
	IssueTypeID    int     `json:"IssueTypeID"`
	AssignedTo     *string `json:"AssignedTo"`
	SubStatusID    int     `json:"SubStatusID"`
	RequiredByDate *string `json:"RequiredByDate"`
}

// SearchRequest is the body for POST /issues/search/.
type SearchRequest struct {
	QuerySetDefinitions []QuerySetDefinition `json:"QuerySetDefinitions"`
	PageIndex           int                  `json:"PageIndex"`
	PageSize            int                  `json:"PageSize"`
	CanIncludeNotes     bool                 `json:"CanIncludeNotes"`
}

// QuerySetDefinition groups filter expressions joined by an operator.
type QuerySetDefinition struct {
	QuerySetIndex       int               `json:"QuerySetIndex"`
	QuerySetOperator    string            `json:"QuerySetOperator"`
	QuerySetExpressions []QueryExpression `json:"QuerySetExpressions"`
}

// QueryExpression is a single field comparison.
type QueryExpression struct {
	QueryExpressionOperator  string `json:"QueryExpressionOperator"`
	QueryExpressionOperation string `json:"QueryExpressionOperation"`
	FieldName                string `json:"FieldName"`
	FieldFilterValue1        string `json:"FieldFilterValue1"`
	FieldFilterValue2        string `json:"FieldFilterValue2"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Collection   []Ticket `json:"Collection"`
	CountForPage int      `json:"CountForPage"`
	TotalCount   int      `json:"TotalCount"`
}

// SubStatus is an entry of GET /substatuses.
type SubStatus struct {
	SubStatusID   int    `json:"SubStatusID"`
	SubStatusName string `json:"SubStatusName"`
}

// IssueType is an entry of GET /issuetypes.
type IssueType struct {
	IssueTypeID   int    `json:"IssueTypeID"`
	IssueTypeName string `json:"IssueTypeName"`
}

type subStatusesResponse struct {
	Collection []SubStatus `json:"Collection"`
	TotalCount int         `json:"TotalCount"`
}

type issueTypesResponse struct {
	Collection []IssueType `json:"Collection"`
	TotalCount int         `json:"TotalCount"`
}

// Lookup maps a reference ID to its display name.
type Lookup map[int]string

// Domain names a lookup table.
type Domain string

const (
	SubStatuses Domain = "substatuses"
	IssueTypes  Domain = "issuetypes"
)

// openTicketsQuery selects every ticket whose Status is Open.
func openTicketsQuery(pageSize int) SearchRequest {
	return SearchRequest{
		QuerySetDefinitions: []QuerySetDefinition{
			{
				QuerySetIndex:    0,
				QuerySetOperator: "AND",
				QuerySetExpressions: []QueryExpression{
					{
						QueryExpressionOperator:  "AND",
						QueryExpressionOperation: "Equal",
						FieldName:                "Status",
						FieldFilterValue1:        "Open",
						FieldFilterValue2:        "",
					},
				},
			},
		},
		PageIndex:       0,
		PageSize:        pageSize,
		CanIncludeNotes: false,
	}
}
