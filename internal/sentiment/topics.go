package sentiment

import (
	"strings"

	"github.com/okarpov/turncoat/internal/model"
)

// Keyword buckets for categorizing a contradiction by topic. Checked in
// order; the first bucket with a hit in either text wins.
var categoryBuckets = []struct {
	category model.FindingCategory
	keywords []string
}{
	{model.CategoryPolitical, []string{
		"politic", "election", "vote", "government", "president", "congress",
		"senator", "policy", "democrat", "republican", "liberal",
		"conservative", "tax", "immigration", "law",
	}},
	{model.CategoryTechnology, []string{
		"iphone", "android", "linux", "windows", "software", "tech",
		"computer", "programming", "code", "ai ", "crypto", "bitcoin",
		"phone", "laptop", "browser",
	}},
	{model.CategoryRelationship, []string{
		"girlfriend", "boyfriend", "wife", "husband", "partner", "dating",
		"marriage", "married", "divorce", "relationship", "breakup",
	}},
	{model.CategoryEntertainment, []string{
		"movie", "film", "show", "series", "season", "episode", "album",
		"band", "song", "music", "game", "gaming", "actor", "netflix",
	}},
	{model.CategoryLifestyle, []string{
		"diet", "vegan", "vegetarian", "gym", "workout", "exercise",
		"smoking", "drinking", "alcohol", "sleep", "routine", "travel",
	}},
	{model.CategoryPreference, []string{
		"pizza", "food", "coffee", "tea", "beer", "pineapple", "taste",
		"flavor", "restaurant", "favorite", "prefer", "cuisine",
	}},
	{model.CategoryFactual, []string{
		"fact", "study", "research", "evidence", "statistic", "data",
		"science", "proven", "history", "actually",
	}},
}

// Categorize infers a finding category from the two statement texts,
// defaulting to the generic opinion bucket
func Categorize(a, b string) model.FindingCategory {
	combined := strings.ToLower(a + " " + b)
	for _, bucket := range categoryBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(combined, kw) {
				return bucket.category
			}
		}
	}
	return model.CategoryOpinion
}

// TopicSpread counts how many distinct category buckets a text touches
func TopicSpread(text string) int {
	lower := strings.ToLower(text)
	spread := 0
	for _, bucket := range categoryBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				spread++
				break
			}
		}
	}
	return spread
}

// OpposingPair is a word pair whose co-occurrence across two statements
// signals a possible reversal
type OpposingPair struct {
	A, B string
}

// OpposingPairs is the antonym table used by the heuristic contradiction
// detector
var OpposingPairs = []OpposingPair{
	{"love", "hate"}, {"loved", "hate"}, {"love", "hated"},
	{"support", "oppose"}, {"best", "worst"}, {"good", "bad"},
	{"great", "terrible"}, {"great", "awful"}, {"amazing", "garbage"},
	{"agree", "disagree"}, {"like", "dislike"}, {"trust", "distrust"},
	{"right", "wrong"}, {"underrated", "overrated"}, {"win", "lose"},
	{"superior", "inferior"}, {"recommend", "avoid"},
}
