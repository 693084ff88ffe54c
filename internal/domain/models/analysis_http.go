package models

// Requests for analysis HTTP endpoints. Defined in domain for consistency and reuse.

type RefreshRequest struct {
	// Async makes the call return 202 immediately instead of blocking for
	// the rebuild result.
	Async bool `query:"async" json:"async"`
}

type TopMarketsRequest struct {
	Limit int `query:"limit" json:"limit" default:"5" validate:"gte=1,lte=100"`
}
