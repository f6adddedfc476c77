package types

// OpKind tags a worker request or response. The two offloaded operation
// classes are CSV parsing and analysis; both are pure functions over their
// payload and safe to run concurrently with unrelated work.
type OpKind string

const (
	OpParseCSV      OpKind = "parse_csv"
	OpAnalyzeRarity OpKind = "analyze_rarity"
	OpMatchSets     OpKind = "match_sets"
)

// WorkRequest is the envelope sent to a worker goroutine. Payload is a
// snapshot owned by the worker after send; callers must not retain it.
type WorkRequest struct {
	Kind    OpKind
	ID      string
	Payload any
}

// WorkResponse is the envelope a worker posts back. Err is non-nil only for
// requests the worker could not interpret; computation itself does not fail.
type WorkResponse struct {
	Kind   OpKind
	ID     string
	Result any
	Err    error
}
