package normalize

import (
	"testing"

	"github.com/okarpov/turncoat/internal/model"
)

func rawItem(text string, ts int64, weight int) model.RawItem {
	return model.RawItem{
		Text:      text,
		Timestamp: ts,
		Venue:     "test",
		Weight:    weight,
		Kind:      model.KindComment,
	}
}

func TestNormalizer_DropsNoise(t *testing.T) {
	n := NewNormalizer(20)

	items := []model.RawItem{
		rawItem("", 100, 1),
		rawItem("[deleted]", 200, 1),
		rawItem("[removed]", 300, 1),
		rawItem("too short", 400, 1),
		rawItem("this one is long enough to keep around", 500, 1),
		{Text: "valid text that is long enough to keep", Timestamp: 0}, // missing timestamp
	}

	statements := n.Normalize(items)
	if len(statements) != 1 {
		t.Fatalf("Expected 1 statement, got %d", len(statements))
	}
	if statements[0].Text != "this one is long enough to keep around" {
		t.Errorf("Kept the wrong statement: %q", statements[0].Text)
	}
}

func TestNormalizer_SortsAndAssignsDenseIDs(t *testing.T) {
	n := NewNormalizer(10)

	items := []model.RawItem{
		rawItem("the third statement in time order", 3000, 1),
		rawItem("the first statement in time order", 1000, 1),
		rawItem("the second statement in time order", 2000, 1),
	}

	statements := n.Normalize(items)
	if len(statements) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(statements))
	}
	for i, st := range statements {
		if st.ID != i {
			t.Errorf("Expected dense sequential id %d, got %d", i, st.ID)
		}
	}
	if statements[0].Timestamp != 1000 || statements[2].Timestamp != 3000 {
		t.Errorf("Statements not sorted by timestamp ascending: %v", statements)
	}
}

func TestNormalizer_DedupKeepsHighestWeight(t *testing.T) {
	n := NewNormalizer(10)

	items := []model.RawItem{
		rawItem("I really think cats are better than dogs!", 1000, 5),
		rawItem("I really think cats are better than dogs", 2000, 50), // repost, higher weight
		rawItem("a completely different statement about birds", 3000, 1),
	}

	statements := n.Normalize(items)
	if len(statements) != 2 {
		t.Fatalf("Expected 2 statements after dedup, got %d", len(statements))
	}
	if statements[0].Weight != 50 {
		t.Errorf("Expected the higher-weight duplicate to win, got weight %d", statements[0].Weight)
	}
}

func TestNormalizer_DedupTieBreaksByRecency(t *testing.T) {
	n := NewNormalizer(10)

	items := []model.RawItem{
		rawItem("the same exact opinion repeated twice here", 1000, 10),
		rawItem("the same exact opinion repeated twice here", 5000, 10),
	}

	statements := n.Normalize(items)
	if len(statements) != 1 {
		t.Fatalf("Expected 1 statement, got %d", len(statements))
	}
	if statements[0].Timestamp != 5000 {
		t.Errorf("Expected the more recent duplicate to win ties, got timestamp %d", statements[0].Timestamp)
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := NewNormalizer(10)

	items := []model.RawItem{
		rawItem("I think pineapple belongs on pizza, fight me", 1000, 3),
		rawItem("I think pineapple belongs on pizza... fight me", 2000, 1),
		rawItem("winter is objectively the best season of them all", 3000, 7),
	}

	first := n.Normalize(items)

	// Feed the output back through as raw items
	back := make([]model.RawItem, len(first))
	for i, st := range first {
		back[i] = model.RawItem{
			Text:      st.Text,
			Timestamp: st.Timestamp,
			Venue:     st.Venue,
			Weight:    st.Weight,
			Kind:      st.Kind,
		}
	}
	second := n.Normalize(back)

	if len(second) != len(first) {
		t.Fatalf("Normalization not idempotent: %d then %d statements", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text || first[i].ID != second[i].ID {
			t.Errorf("Statement %d changed on second pass: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSignature_NormalizesPunctuationAndCase(t *testing.T) {
	a := Signature("I LOVE tabs, not spaces!!!")
	b := Signature("i love tabs not spaces")
	if a != b {
		t.Errorf("Expected equal signatures, got %q vs %q", a, b)
	}
}
