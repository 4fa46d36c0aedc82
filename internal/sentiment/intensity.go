package sentiment

import "strings"

// Stance-intensity and emphasis heuristics used by the fallback summary
// generator and the candidate selector.

var absoluteMarkers = []string{
	"always", "never", "absolutely", "definitely", "completely", "totally",
	"everyone", "nobody", "no one", "without a doubt", "100%", "literally",
	"every single", "all of", "none of", "impossible", "guaranteed",
	"undeniably", "objectively", "period", "end of story", "the only",
}

var hedgeMarkers = []string{
	"maybe", "perhaps", "might", "possibly", "i think", "i guess",
	"i suppose", "probably", "somewhat", "kind of", "sort of", "i feel like",
	"in my opinion", "imo", "imho", "not sure", "could be", "it seems",
	"arguably", "to some extent",
}

var opinionMarkers = []string{
	"i think", "i believe", "i feel", "in my opinion", "imo", "imho",
	"i love", "i hate", "i prefer", "i support", "i oppose", "honestly",
	"personally", "my take", "change my mind", "unpopular opinion",
	"hot take", "i would argue", "i agree", "i disagree", "i cant stand",
	"the best", "the worst", "should be", "should not",
}

var intensifiers = []string{
	"very", "really", "so", "extremely", "incredibly", "insanely",
	"absolutely", "utterly", "ridiculously", "seriously", "massively",
}

func countMarkers(lower string, markers []string) int {
	count := 0
	for _, m := range markers {
		count += strings.Count(lower, m)
	}
	return count
}

// OpinionMarkers counts opinion-signaling phrases in text
func OpinionMarkers(text string) int {
	return countMarkers(strings.ToLower(text), opinionMarkers)
}

// AbsoluteCount counts absolute/strong-language markers
func AbsoluteCount(text string) int {
	return countMarkers(strings.ToLower(text), absoluteMarkers)
}

// HedgeCount counts hedging markers
func HedgeCount(text string) int {
	return countMarkers(strings.ToLower(text), hedgeMarkers)
}

// StanceLabel derives a stance-intensity label from hedging vs absolute
// language
func StanceLabel(text string) string {
	abs := AbsoluteCount(text)
	hedge := HedgeCount(text)
	switch {
	case abs > hedge:
		return "firm"
	case hedge > abs:
		return "tentative"
	default:
		return "even"
	}
}

// EmphasisLabel derives an emphasis label from intensifier count and
// exclamation density
func EmphasisLabel(text string) string {
	lower := strings.ToLower(text)
	score := countMarkers(lower, intensifiers) + strings.Count(text, "!")
	if strings.Contains(text, "!!") {
		score += 2
	}
	switch {
	case score >= 3:
		return "emphatic"
	case score >= 1:
		return "animated"
	default:
		return "measured"
	}
}
