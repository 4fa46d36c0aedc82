package model

import "time"

// AnalysisMode says which path produced the bulk of a report
type AnalysisMode string

const (
	ModeAI        AnalysisMode = "ai"
	ModeHeuristic AnalysisMode = "heuristic"
	ModeMixed     AnalysisMode = "mixed"
)

// TimelineEntry is one point on the report's trailing-window timeline
type TimelineEntry struct {
	Timestamp int64  `json:"timestamp"`
	Excerpt   string `json:"excerpt"`
	Venue     string `json:"venue"`
	Weight    int    `json:"weight"`
}

// Stats holds the report's aggregate statistics
type Stats struct {
	TotalStatements int      `json:"total_statements"`
	TimespanLabel   string   `json:"timespan_label"`
	TopVenues       []string `json:"top_venues"`
	SentimentDelta  float64  `json:"sentiment_delta"` // recent third minus oldest third
}

// Report is the complete output of one analysis run. Immutable; the unit
// stored in the result cache.
type Report struct {
	Subject    string          `json:"subject"`
	AnalyzedAt time.Time       `json:"analyzed_at"`
	Mode       AnalysisMode    `json:"mode"`
	Narrative  string          `json:"narrative"`
	Findings   []Finding       `json:"findings"` // ordered by descending confidence
	Timeline   []TimelineEntry `json:"timeline"`
	Stats      Stats           `json:"stats"`
	Statements []Statement     `json:"statements,omitempty"`
	Summaries  []Summary       `json:"summaries,omitempty"`
}
