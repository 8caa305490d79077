package screening

import "context"

// RawListHit is one unprocessed entry returned by the consolidated screening
// list for a query. Field names follow the upstream payload.
type RawListHit struct {
	Name        string   `json:"name"`
	Programs    []string `json:"programs"`
	Addresses   []string `json:"addresses"`
	Countries   []string `json:"countries"`
	Remarks     string   `json:"remarks"`
	StartDate   string   `json:"start_date"`
	SourceLabel string   `json:"source"`
}

// Gateway is the single port through which the core queries the external
// consolidated screening list. Any transport failure, non-200 response, or
// malformed payload surfaces as an error; the caller fails closed on it.
//
// Retry policy belongs to gateway implementations, never to the screener: a
// flaky external call must not silently mask a fail-closed verdict with a
// stale success.
type Gateway interface {
	Query(ctx context.Context, name, country, address string) ([]RawListHit, error)
}
