package relevance

import (
	"fmt"
	"testing"
	"time"

	"github.com/okarpov/turncoat/internal/model"
)

const day = int64(24 * 3600)

func statement(id int, text string, ts int64) model.Statement {
	return model.Statement{ID: id, Text: text, Timestamp: ts, Weight: 1}
}

func TestFilter_KeepsAllWhenUnderLimit(t *testing.T) {
	s := NewSelector(80, 25, 24*time.Hour)
	statements := []model.Statement{
		statement(0, "I love this city so much", 1000),
		statement(1, "the weather is terrible today", 2000),
	}
	kept := s.Filter(statements)
	if len(kept) != 2 {
		t.Fatalf("Expected all statements kept, got %d", len(kept))
	}
}

func TestFilter_TopKChronological(t *testing.T) {
	s := NewSelector(3, 25, 24*time.Hour)

	// Three opinionated statements and five bland ones
	statements := []model.Statement{
		statement(0, "honestly I think this is absolutely the worst decision, I hate it", 5000),
		statement(1, "the bus arrives at nine", 1000),
		statement(2, "grocery list for the week", 2000),
		statement(3, "I love this amazing incredible restaurant, definitely the best in town", 3000),
		statement(4, "the parking lot was full", 4000),
		statement(5, "in my opinion this movie is a wonderful brilliant masterpiece, I loved it", 500),
		statement(6, "meeting rescheduled to friday", 6000),
		statement(7, "weather update for the area", 7000),
	}

	kept := s.Filter(statements)
	if len(kept) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(kept))
	}
	wantIDs := []int{5, 3, 0} // chronological within the retained set
	for i, st := range kept {
		if st.ID != wantIDs[i] {
			t.Errorf("Position %d: expected statement %d, got %d", i, wantIDs[i], st.ID)
		}
	}
}

func TestPairPotential_SameSessionExcluded(t *testing.T) {
	s := NewSelector(80, 25, 24*time.Hour)

	a := statement(0, "I love pineapple pizza more than anything", 1000)
	b := statement(1, "I hate pineapple pizza with a passion", 1000+3600) // one hour later

	if p := s.PairPotential(a, b); p != 0 {
		t.Errorf("Expected zero potential inside the minimum gap, got %.2f", p)
	}
}

func TestPairPotential_GenuineReversal(t *testing.T) {
	s := NewSelector(80, 25, 24*time.Hour)

	a := statement(0, "I absolutely love pineapple pizza, it is the best food ever", 1000)
	b := statement(1, "I absolutely hate pineapple pizza, it is the worst food ever", 1000+400*day)

	p := s.PairPotential(a, b)
	if p < potentialThreshold {
		t.Errorf("Expected a reversal 400 days apart to clear the threshold, got %.2f", p)
	}

	// Symmetric in argument order
	if q := s.PairPotential(b, a); q != p {
		t.Errorf("Expected symmetric potential, got %.2f vs %.2f", p, q)
	}
}

func TestPairPotential_RepetitionPenalized(t *testing.T) {
	s := NewSelector(80, 25, 24*time.Hour)

	a := statement(0, "pineapple pizza is genuinely the best food choice", 1000)
	b := statement(1, "pineapple pizza is genuinely the best food choice", 1000+100*day)

	repeat := s.PairPotential(a, b)
	reversal := s.PairPotential(
		statement(0, "pineapple pizza is genuinely the best food choice", 1000),
		statement(1, "pineapple pizza is genuinely the worst food choice", 1000+100*day),
	)
	if repeat >= reversal {
		t.Errorf("Expected repetition (%.2f) to score below reversal (%.2f)", repeat, reversal)
	}
}

func TestCandidates_SortedAndCapped(t *testing.T) {
	s := NewSelector(80, 3, 24*time.Hour)

	// Many mutually contradicting statements spread over months
	var statements []model.Statement
	for i := 0; i < 4; i++ {
		statements = append(statements, statement(i*2,
			fmt.Sprintf("I love the riverside %d district, best place ever built", i),
			int64(1000)+int64(i)*90*day))
		statements = append(statements, statement(i*2+1,
			fmt.Sprintf("I hate the riverside %d district, worst place ever built", i),
			int64(1000)+int64(i)*90*day+30*day))
	}

	pairs := s.Candidates(statements)
	if len(pairs) > 3 {
		t.Fatalf("Expected at most 3 pairs, got %d", len(pairs))
	}
	if len(pairs) == 0 {
		t.Fatal("Expected at least one candidate pair")
	}
	for i := 1; i < len(pairs); i++ {
		if pairs[i].Potential > pairs[i-1].Potential {
			t.Errorf("Pairs not sorted by potential descending: %.2f after %.2f",
				pairs[i].Potential, pairs[i-1].Potential)
		}
	}
	for _, p := range pairs {
		if p.Potential < potentialThreshold {
			t.Errorf("Pair below threshold survived: %.2f", p.Potential)
		}
		if p.LeftID == p.RightID {
			t.Errorf("Degenerate pair %d/%d", p.LeftID, p.RightID)
		}
	}
}

func TestRelevanceScore_OpinionOutranksBland(t *testing.T) {
	opinion := statement(0, "honestly I think this is absolutely the best restaurant, I love it so much", 0)
	bland := statement(1, "the store opens at nine on weekdays", 0)
	if RelevanceScore(opinion) <= RelevanceScore(bland) {
		t.Errorf("Expected opinionated statement to outrank bland one: %.2f vs %.2f",
			RelevanceScore(opinion), RelevanceScore(bland))
	}
}
