package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okarpov/turncoat/internal/budget"
	"github.com/okarpov/turncoat/internal/cache"
	"github.com/okarpov/turncoat/internal/model"
)

const day = int64(24 * 3600)

// mockSource serves a fixed item set and counts fetches
type mockSource struct {
	items   []model.RawItem
	err     error
	fetches int
}

func (m *mockSource) Fetch(ctx context.Context, subject string) ([]model.RawItem, error) {
	m.fetches++
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func reversalItems() []model.RawItem {
	return []model.RawItem{
		{Text: "I love pineapple pizza, honestly the best food ever", Timestamp: 1000, Venue: "food", Weight: 5, Kind: model.KindComment},
		{Text: "the farmers market opens early on saturdays here", Timestamp: 1000 + 100*day, Venue: "casual", Weight: 1, Kind: model.KindComment},
		{Text: "I hate pineapple pizza, honestly the worst food ever", Timestamp: 1000 + 400*day, Venue: "food", Weight: 8, Kind: model.KindComment},
	}
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Analysis.BatchDelay = time.Millisecond
	cfg.Cache.Enabled = false
	return cfg
}

func TestAnalyze_HeuristicEndToEnd(t *testing.T) {
	src := &mockSource{items: reversalItems()}
	p := New(testConfig(), src, nil, budget.NewLedger(1.0, 0.8), nil)

	rep, err := p.Analyze(context.Background(), "sampleuser")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if rep.Subject != "sampleuser" {
		t.Errorf("Subject = %q", rep.Subject)
	}
	if rep.Mode != model.ModeHeuristic {
		t.Errorf("Expected heuristic mode without a provider, got %q", rep.Mode)
	}
	if rep.Stats.TotalStatements != 3 {
		t.Errorf("Expected 3 statements, got %d", rep.Stats.TotalStatements)
	}
	if len(rep.Findings) != 1 {
		t.Fatalf("Expected 1 finding, got %d", len(rep.Findings))
	}

	f := rep.Findings[0]
	if f.Source != model.SourceHeuristic {
		t.Errorf("Expected heuristic source, got %q", f.Source)
	}
	if f.Category != model.CategoryPreference {
		t.Errorf("Expected personal-preference category, got %q", f.Category)
	}
	if f.Confidence < 50 || f.Confidence > 90 {
		t.Errorf("Heuristic confidence out of range: %d", f.Confidence)
	}
	if !strings.Contains(rep.Narrative, "heuristic fallback") {
		t.Errorf("Narrative should mention the fallback mode: %q", rep.Narrative)
	}
}

func TestAnalyze_CloseStatementsNotContradictions(t *testing.T) {
	src := &mockSource{items: []model.RawItem{
		{Text: "I love pineapple pizza, honestly the best food ever", Timestamp: 1000, Venue: "food", Weight: 5, Kind: model.KindComment},
		{Text: "I hate pineapple pizza, honestly the worst food ever", Timestamp: 1000 + 3600, Venue: "food", Weight: 5, Kind: model.KindComment},
	}}
	p := New(testConfig(), src, nil, budget.NewLedger(1.0, 0.8), nil)

	rep, err := p.Analyze(context.Background(), "sampleuser")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(rep.Findings) != 0 {
		t.Errorf("Statements an hour apart should not be findings, got %d", len(rep.Findings))
	}
}

func TestAnalyze_EmptyAccount(t *testing.T) {
	src := &mockSource{items: nil}
	p := New(testConfig(), src, nil, budget.NewLedger(1.0, 0.8), nil)

	rep, err := p.Analyze(context.Background(), "ghostuser")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if rep.Stats.TotalStatements != 0 {
		t.Errorf("Expected zero statements, got %d", rep.Stats.TotalStatements)
	}
	if !strings.Contains(rep.Narrative, "No analyzable content was available for ghostuser") {
		t.Errorf("Unexpected narrative: %q", rep.Narrative)
	}
}

func TestAnalyze_TombstonesOnly(t *testing.T) {
	src := &mockSource{items: []model.RawItem{
		{Text: "[deleted]", Timestamp: 1000, Kind: model.KindComment},
		{Text: "[removed]", Timestamp: 2000, Kind: model.KindComment},
	}}
	p := New(testConfig(), src, nil, budget.NewLedger(1.0, 0.8), nil)

	rep, err := p.Analyze(context.Background(), "moderated")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if rep.Stats.TotalStatements != 0 {
		t.Errorf("Tombstones should not survive normalization, got %d statements", rep.Stats.TotalStatements)
	}
}

func TestAnalyze_SourceUnavailable(t *testing.T) {
	src := &mockSource{err: errors.New("connection refused")}
	p := New(testConfig(), src, nil, budget.NewLedger(1.0, 0.8), nil)

	rep, err := p.Analyze(context.Background(), "sampleuser")
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("Expected ErrSourceUnavailable, got %v", err)
	}
	if rep == nil {
		t.Fatal("Expected a well-formed report alongside the error")
	}
	if !strings.Contains(rep.Narrative, "Could not retrieve content for sampleuser") {
		t.Errorf("Unexpected narrative: %q", rep.Narrative)
	}
}

func TestAnalyze_CacheHitSkipsRecomputation(t *testing.T) {
	results, err := cache.NewResultCache(t.TempDir(), time.Hour, 10)
	if err != nil {
		t.Fatal(err)
	}

	src := &mockSource{items: reversalItems()}
	p := New(testConfig(), src, nil, budget.NewLedger(1.0, 0.8), results)

	first, err := p.Analyze(context.Background(), "sampleuser")
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := p.Analyze(context.Background(), "sampleuser")
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if src.fetches != 2 {
		t.Errorf("Both runs must fetch (the fingerprint needs the item set), got %d fetches", src.fetches)
	}
	if second.AnalyzedAt != first.AnalyzedAt {
		t.Error("Expected the second run to return the cached report")
	}
	stats := results.Stats()
	if stats.Hits != 1 {
		t.Errorf("Expected 1 cache hit, got %d", stats.Hits)
	}
}

func TestAnalyze_NewActivityInvalidatesCache(t *testing.T) {
	results, err := cache.NewResultCache(t.TempDir(), time.Hour, 10)
	if err != nil {
		t.Fatal(err)
	}

	src := &mockSource{items: reversalItems()}
	p := New(testConfig(), src, nil, budget.NewLedger(1.0, 0.8), results)

	if _, err := p.Analyze(context.Background(), "sampleuser"); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	// A new item changes the fingerprint
	src.items = append(src.items, model.RawItem{
		Text:      "a brand new statement long enough to count",
		Timestamp: 1000 + 500*day,
		Venue:     "casual",
		Weight:    1,
		Kind:      model.KindComment,
	})
	if _, err := p.Analyze(context.Background(), "sampleuser"); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if results.Stats().Hits != 0 {
		t.Errorf("Expected no cache hits after new activity, got %d", results.Stats().Hits)
	}
	if results.Stats().Misses != 2 {
		t.Errorf("Expected 2 misses, got %d", results.Stats().Misses)
	}
}

func TestMode(t *testing.T) {
	tests := []struct {
		summaryAI, detectAI bool
		want                model.AnalysisMode
	}{
		{true, true, model.ModeAI},
		{true, false, model.ModeMixed},
		{false, true, model.ModeMixed},
		{false, false, model.ModeHeuristic},
	}
	for _, tt := range tests {
		if got := mode(tt.summaryAI, tt.detectAI); got != tt.want {
			t.Errorf("mode(%v, %v) = %q, want %q", tt.summaryAI, tt.detectAI, got, tt.want)
		}
	}
}
