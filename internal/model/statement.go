package model

// StatementKind distinguishes the two item shapes the source returns
type StatementKind string

const (
	KindComment StatementKind = "comment"
	KindPost    StatementKind = "post"
)

// Statement is one retained, deduplicated unit of user-authored text.
// Immutable once created; IDs are dense, sequential, and meaningful only
// within a single analysis run.
type Statement struct {
	ID           int           `json:"id"`
	Text         string        `json:"text"`
	Timestamp    int64         `json:"timestamp"`               // epoch seconds
	Venue        string        `json:"venue"`                   // sub-community name
	Weight       int           `json:"weight"`                  // community score
	Kind         StatementKind `json:"kind"`
	ContextTitle string        `json:"context_title,omitempty"` // parent post title for comments
}

// RawItem is one unprocessed record from the statement source
type RawItem struct {
	Text         string        `json:"text"`
	Timestamp    int64         `json:"timestamp"`
	Venue        string        `json:"venue"`
	Weight       int           `json:"weight"`
	Kind         StatementKind `json:"kind"`
	ContextTitle string        `json:"context_title,omitempty"`
	Permalink    string        `json:"permalink,omitempty"`
}

// Summary is a short stance-and-sentiment-preserving restatement of a
// Statement. Exactly one exists per retained statement after the
// summarization stage; missing model output is filled deterministically.
type Summary struct {
	StatementID int    `json:"statement_id"`
	Gloss       string `json:"gloss"`
}

// CandidatePair is a statement pair worth comparing, with its heuristic
// contradiction potential
type CandidatePair struct {
	LeftID    int     `json:"left_id"`
	RightID   int     `json:"right_id"`
	Potential float64 `json:"potential"`
}
