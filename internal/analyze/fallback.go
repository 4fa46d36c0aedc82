package analyze

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/okarpov/turncoat/internal/model"
	"github.com/okarpov/turncoat/internal/sentiment"
)

// excerptLength bounds the quoted portion of a fallback gloss
const excerptLength = 140

// FallbackGloss builds a deterministic summary for one statement: a
// truncated excerpt annotated with lexicon-derived sentiment, stance, and
// emphasis labels. Identical input always yields identical output.
func FallbackGloss(st model.Statement) model.Summary {
	excerpt := strings.TrimSpace(st.Text)
	if len(excerpt) > excerptLength {
		n := excerptLength
		// Back up to a rune boundary so multi-byte characters stay intact
		for n > 0 && !utf8.RuneStart(excerpt[n]) {
			n--
		}
		cut := excerpt[:n]
		// Break on a word boundary when one is close enough
		if idx := strings.LastIndex(cut, " "); idx > excerptLength-20 {
			cut = cut[:idx]
		}
		excerpt = cut + "..."
	}

	gloss := fmt.Sprintf("%s [sentiment: %s, stance: %s, emphasis: %s]",
		excerpt,
		sentiment.Label(sentiment.Score(st.Text)),
		sentiment.StanceLabel(st.Text),
		sentiment.EmphasisLabel(st.Text))

	return model.Summary{StatementID: st.ID, Gloss: gloss}
}

// fallbackBatch summarizes a whole batch deterministically
func fallbackBatch(batch []model.Statement) []model.Summary {
	summaries := make([]model.Summary, len(batch))
	for i, st := range batch {
		summaries[i] = FallbackGloss(st)
	}
	return summaries
}
