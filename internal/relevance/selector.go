package relevance

import (
	"math"
	"sort"
	"time"

	"github.com/okarpov/turncoat/internal/model"
	"github.com/okarpov/turncoat/internal/sentiment"
)

// potentialThreshold is the minimum contradiction potential for a pair to
// survive candidate selection
const potentialThreshold = 2.0

// similarityPenaltyFloor is the text overlap above which a pair is treated
// as repetition rather than contradiction
const similarityPenaltyFloor = 0.6

// Selector bounds the O(n²) comparison space: it keeps the top-K statements
// by relevance and proposes a capped set of high-potential pairs among them
type Selector struct {
	topK     int
	maxPairs int
	minGap   time.Duration
}

// NewSelector creates a selector with the given bounds
func NewSelector(topK, maxPairs int, minGap time.Duration) *Selector {
	if topK <= 0 {
		topK = 80
	}
	if maxPairs <= 0 {
		maxPairs = 25
	}
	if minGap <= 0 {
		minGap = 24 * time.Hour
	}
	return &Selector{topK: topK, maxPairs: maxPairs, minGap: minGap}
}

// RelevanceScore scores how much opinion signal a statement carries
func RelevanceScore(st model.Statement) float64 {
	score := 0.0

	// Opinion markers, capped so a marker-stuffed rant doesn't dominate
	markers := sentiment.OpinionMarkers(st.Text)
	if markers > 3 {
		markers = 3
	}
	score += float64(markers) * 1.5

	// Sentiment magnitude
	score += math.Abs(sentiment.Score(st.Text)) * 2.0

	// Community weight, logarithmic so viral posts don't swamp the set
	if st.Weight > 0 {
		score += math.Log1p(float64(st.Weight)) * 0.4
	}

	// Length bonus: longer statements tend to carry actual positions
	length := float64(len(st.Text))
	if length > 400 {
		length = 400
	}
	score += length / 400.0

	// Topic diversity bonus
	score += float64(sentiment.TopicSpread(st.Text)) * 0.5

	return score
}

// Filter returns the top-K statements by relevance score, preserving
// chronological order within the retained set
func (s *Selector) Filter(statements []model.Statement) []model.Statement {
	if len(statements) <= s.topK {
		return statements
	}

	type scored struct {
		st    model.Statement
		score float64
	}
	ranked := make([]scored, len(statements))
	for i, st := range statements {
		ranked[i] = scored{st: st, score: RelevanceScore(st)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	kept := make([]model.Statement, s.topK)
	for i := 0; i < s.topK; i++ {
		kept[i] = ranked[i].st
	}
	sort.Slice(kept, func(i, j int) bool {
		return kept[i].Timestamp < kept[j].Timestamp
	})
	return kept
}

// PairPotential estimates how likely two statements are to genuinely
// contradict each other
func (s *Selector) PairPotential(a, b model.Statement) float64 {
	gap := time.Duration(b.Timestamp-a.Timestamp) * time.Second
	if gap < 0 {
		gap = -gap
	}
	// Same-session remarks are contextually linked, not contradictory
	if gap < s.minGap {
		return 0
	}

	overlap := sentiment.Overlap(a.Text, b.Text)

	potential := 0.0

	// Opposite or distant sentiment is the strongest signal
	potential += math.Abs(sentiment.Score(a.Text)-sentiment.Score(b.Text)) * 3.0

	// Must be talking about the same thing for a reversal to exist
	potential += overlap * 4.0

	// People change their minds over time; long gaps make a genuine
	// reversal more plausible than a contextual disagreement
	days := gap.Hours() / 24.0
	potential += math.Log1p(days/30.0) * 0.8

	// Both statements committed to a position
	if sentiment.AbsoluteCount(a.Text) > 0 && sentiment.AbsoluteCount(b.Text) > 0 {
		potential += 1.0
	}

	// Near-identical texts are repetition, not contradiction
	if overlap > similarityPenaltyFloor {
		potential -= 3.0
	}

	if potential < 0 {
		potential = 0
	}
	return potential
}

// Candidates evaluates every pair in the retained set and returns the
// highest-potential pairs, sorted by potential descending and capped
func (s *Selector) Candidates(statements []model.Statement) []model.CandidatePair {
	var pairs []model.CandidatePair
	for i := 0; i < len(statements); i++ {
		for j := i + 1; j < len(statements); j++ {
			p := s.PairPotential(statements[i], statements[j])
			if p < potentialThreshold {
				continue
			}
			pairs = append(pairs, model.CandidatePair{
				LeftID:    statements[i].ID,
				RightID:   statements[j].ID,
				Potential: p,
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Potential > pairs[j].Potential
	})
	if len(pairs) > s.maxPairs {
		pairs = pairs[:s.maxPairs]
	}
	return pairs
}
