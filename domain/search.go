package domain

import "time"

// SearchStatus classifies the outcome of a module lookup.
type SearchStatus string

const (
	SearchSuccess  SearchStatus = "success"
	SearchNotFound SearchStatus = "not_found"
	SearchError    SearchStatus = "error"
)

// SearchResult is one completed module lookup, kept in the per-account
// history store.
type SearchResult struct {
	ID        string                 `json:"id"`
	AccountID string                 `json:"account_id"`
	Module    string                 `json:"module"`
	Query     string                 `json:"query"`
	Status    SearchStatus           `json:"status"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}
