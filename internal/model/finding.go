package model

// FindingCategory buckets a contradiction by topic
type FindingCategory string

const (
	CategoryPolitical     FindingCategory = "political"
	CategoryPreference    FindingCategory = "personal-preference"
	CategoryFactual       FindingCategory = "factual"
	CategoryOpinion       FindingCategory = "opinion"
	CategoryLifestyle     FindingCategory = "lifestyle"
	CategoryRelationship  FindingCategory = "relationship"
	CategoryTechnology    FindingCategory = "technology"
	CategoryEntertainment FindingCategory = "entertainment"
)

// FindingSource records which path produced a finding
type FindingSource string

const (
	SourceAI        FindingSource = "ai"
	SourceHeuristic FindingSource = "heuristic"
)

// ReviewThreshold is the confidence below which a finding is flagged for
// human review
const ReviewThreshold = 70

// Finding is an asserted contradiction between two statements.
// Derived, never mutated after creation.
type Finding struct {
	LeftID         int             `json:"left_id"`
	RightID        int             `json:"right_id"`
	Description    string          `json:"description"`
	Confidence     int             `json:"confidence"` // clamped to [50,95]
	Category       FindingCategory `json:"category"`
	Source         FindingSource   `json:"source"`
	RequiresReview bool            `json:"requires_review"`
}

// NewFinding builds a finding, clamping confidence and deriving the review
// flag
func NewFinding(leftID, rightID int, desc string, confidence int, category FindingCategory, source FindingSource) Finding {
	maxConf := 95
	if source == SourceHeuristic {
		maxConf = 90
	}
	if confidence > maxConf {
		confidence = maxConf
	}
	if confidence < 50 {
		confidence = 50
	}
	return Finding{
		LeftID:         leftID,
		RightID:        rightID,
		Description:    desc,
		Confidence:     confidence,
		Category:       category,
		Source:         source,
		RequiresReview: confidence < ReviewThreshold,
	}
}
