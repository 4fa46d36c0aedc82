package normalize

import (
	"sort"
	"strings"

	"github.com/okarpov/turncoat/internal/model"
)

// Tombstone markers left behind by moderation and deletion
var tombstones = map[string]bool{
	"[deleted]":         true,
	"[removed]":         true,
	"[deleted by user]": true,
}

// signatureLength is how much of the normalized text participates in the
// near-duplicate signature. Reposts usually share a prefix even when a
// trailing edit differs.
const signatureLength = 120

// Normalizer converts raw source items into deduplicated statements
type Normalizer struct {
	minLength int
}

// NewNormalizer creates a normalizer with the given minimum text length
func NewNormalizer(minLength int) *Normalizer {
	if minLength <= 0 {
		minLength = 20
	}
	return &Normalizer{minLength: minLength}
}

// Normalize filters noise out of raw items, clusters near-duplicates, keeps
// one representative per cluster, and returns statements sorted by
// timestamp ascending with dense sequential ids.
func (n *Normalizer) Normalize(items []model.RawItem) []model.Statement {
	type cluster struct {
		item  model.RawItem
		order int
	}
	clusters := make(map[string]*cluster)
	order := 0

	for _, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" || tombstones[strings.ToLower(text)] || len(text) < n.minLength {
			continue
		}
		if item.Timestamp <= 0 {
			continue
		}

		sig := Signature(text)
		existing, ok := clusters[sig]
		if !ok {
			item.Text = text
			clusters[sig] = &cluster{item: item, order: order}
			order++
			continue
		}

		// Keep the highest-weight member; ties go to the most recent
		if item.Weight > existing.item.Weight ||
			(item.Weight == existing.item.Weight && item.Timestamp > existing.item.Timestamp) {
			item.Text = text
			existing.item = item
		}
	}

	kept := make([]model.RawItem, 0, len(clusters))
	for _, c := range clusters {
		kept = append(kept, c.item)
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Timestamp != kept[j].Timestamp {
			return kept[i].Timestamp < kept[j].Timestamp
		}
		return kept[i].Text < kept[j].Text
	})

	statements := make([]model.Statement, len(kept))
	for i, item := range kept {
		statements[i] = model.Statement{
			ID:           i,
			Text:         item.Text,
			Timestamp:    item.Timestamp,
			Venue:        item.Venue,
			Weight:       item.Weight,
			Kind:         item.Kind,
			ContextTitle: item.ContextTitle,
		}
	}
	return statements
}

// Signature computes the near-duplicate signature of a text: lowercased,
// punctuation stripped, whitespace collapsed, truncated prefix.
func Signature(text string) string {
	var b strings.Builder
	lastSpace := true

	for _, r := range strings.ToLower(text) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '\n':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
		if b.Len() >= signatureLength {
			break
		}
	}
	return strings.TrimSpace(b.String())
}
