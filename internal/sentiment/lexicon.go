package sentiment

import "strings"

// Lexical sentiment scoring. Deliberately simple: the pipeline only needs
// polarity and magnitude, and the deterministic fallback path must produce
// identical output for identical input.

var positiveWords = map[string]bool{
	"love": true, "loved": true, "great": true, "good": true, "best": true,
	"amazing": true, "awesome": true, "excellent": true, "fantastic": true,
	"wonderful": true, "enjoy": true, "enjoyed": true, "like": true,
	"liked": true, "support": true, "favorite": true, "happy": true,
	"brilliant": true, "perfect": true, "beautiful": true, "impressive": true,
	"recommend": true, "agree": true, "trust": true, "superior": true,
	"win": true, "winning": true, "right": true, "correct": true,
	"underrated": true, "incredible": true, "solid": true, "respect": true,
}

var negativeWords = map[string]bool{
	"hate": true, "hated": true, "terrible": true, "bad": true, "worst": true,
	"awful": true, "horrible": true, "garbage": true, "trash": true,
	"disgusting": true, "dislike": true, "oppose": true, "wrong": true,
	"stupid": true, "dumb": true, "useless": true, "broken": true,
	"disappointing": true, "disappointed": true, "overrated": true,
	"annoying": true, "pathetic": true, "disagree": true, "distrust": true,
	"lose": true, "losing": true, "fail": true, "failure": true,
	"scam": true, "ruined": true, "inferior": true, "toxic": true,
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "to": true, "of": true, "in": true, "on": true, "at": true,
	"for": true, "with": true, "it": true, "its": true, "this": true,
	"that": true, "these": true, "those": true, "i": true, "im": true,
	"you": true, "your": true, "my": true, "me": true, "we": true,
	"they": true, "them": true, "he": true, "she": true, "his": true,
	"her": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "not": true, "no": true, "so": true,
	"if": true, "as": true, "just": true, "about": true, "all": true,
	"can": true, "will": true, "would": true, "there": true, "what": true,
	"when": true, "who": true, "how": true, "than": true, "then": true,
	"too": true, "very": true, "really": true, "get": true, "got": true,
	"also": true, "because": true, "dont": true, "people": true,
}

// Tokenize lowercases text and splits it into bare word tokens
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '\'' {
			if r != '\'' {
				current.WriteRune(r)
			}
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// ContentWords returns the non-stopword tokens of text, deduplicated
func ContentWords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, tok := range Tokenize(text) {
		if len(tok) > 2 && !stopWords[tok] {
			words[tok] = true
		}
	}
	return words
}

// Score computes a lexical sentiment score in [-1, 1]. Zero means neutral
// or no sentiment-bearing words found.
func Score(text string) float64 {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	pos, neg := 0, 0
	negated := false
	for _, tok := range tokens {
		switch tok {
		case "not", "never", "no", "dont", "cant", "wont", "isnt", "arent", "didnt":
			negated = true
			continue
		}
		if positiveWords[tok] {
			if negated {
				neg++
			} else {
				pos++
			}
		} else if negativeWords[tok] {
			if negated {
				pos++
			} else {
				neg++
			}
		}
		negated = false
	}

	total := pos + neg
	if total == 0 {
		return 0
	}
	raw := float64(pos-neg) / float64(total)
	// Damp short texts so a single word doesn't read as maximal sentiment
	if total == 1 {
		raw *= 0.6
	}
	return raw
}

// Label maps a score to a coarse polarity label
func Label(score float64) string {
	switch {
	case score > 0.2:
		return "positive"
	case score < -0.2:
		return "negative"
	default:
		return "neutral"
	}
}

// Overlap computes the Jaccard similarity of two texts' content words
func Overlap(a, b string) float64 {
	wa := ContentWords(a)
	wb := ContentWords(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	shared := 0
	for w := range wa {
		if wb[w] {
			shared++
		}
	}
	union := len(wa) + len(wb) - shared
	return float64(shared) / float64(union)
}

// SharedWords returns the content words two texts have in common
func SharedWords(a, b string) []string {
	wa := ContentWords(a)
	wb := ContentWords(b)
	var shared []string
	for w := range wa {
		if wb[w] {
			shared = append(shared, w)
		}
	}
	return shared
}
