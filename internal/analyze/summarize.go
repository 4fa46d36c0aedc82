package analyze

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/okarpov/turncoat/internal/budget"
	"github.com/okarpov/turncoat/internal/llm"
	"github.com/okarpov/turncoat/internal/model"
	"github.com/okarpov/turncoat/internal/worker"
)

const summarySystem = "You compress social-media statements into short glosses. " +
	"Preserve the author's stance, sentiment polarity, and emotional intensity exactly. " +
	"Never soften, editorialize, or merge statements."

// glossLine matches one "id: text" line of backend output
var glossLine = regexp.MustCompile(`^\s*(\d+)\s*[:.)-]\s*(.+)$`)

// Summarizer runs the summarization stage: one backend call per batch, a
// deterministic fallback for anything the backend misses or cannot be
// asked for at all.
type Summarizer struct {
	provider llm.Provider
	ledger   *budget.Ledger
	pacer    *worker.Pacer
	model    string
	maxConc  int
	verbose  bool
}

// NewSummarizer creates the summarization stage. A nil provider routes
// every batch to the fallback generator.
func NewSummarizer(provider llm.Provider, ledger *budget.Ledger, pacer *worker.Pacer, modelName string, concurrency int, verbose bool) *Summarizer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Summarizer{
		provider: provider,
		ledger:   ledger,
		pacer:    pacer,
		model:    modelName,
		maxConc:  concurrency,
		verbose:  verbose,
	}
}

type summarizeJob struct {
	s     *Summarizer
	batch []model.Statement
}

type summarizeResult struct {
	summaries []model.Summary
	usedAI    bool
	err       error
}

func (r *summarizeResult) GetError() error { return r.err }

func (j *summarizeJob) Execute(ctx context.Context) worker.Result {
	return j.s.summarizeBatch(ctx, j.batch)
}

// Summarize produces exactly one summary per statement, in statement order.
// The returned flag reports whether any batch was summarized by the
// backend (as opposed to the deterministic fallback).
func (s *Summarizer) Summarize(ctx context.Context, batches [][]model.Statement) ([]model.Summary, bool) {
	if len(batches) == 0 {
		return nil, false
	}

	pool := worker.NewPool(ctx, s.maxConc)
	pool.Start()
	for _, batch := range batches {
		pool.Submit(&summarizeJob{s: s, batch: batch})
	}
	results := pool.Wait()

	usedAI := false
	var all []model.Summary
	for _, r := range results {
		sr := r.(*summarizeResult)
		all = append(all, sr.summaries...)
		if sr.usedAI {
			usedAI = true
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].StatementID < all[j].StatementID
	})
	return all, usedAI
}

// summarizeBatch handles one batch: backend call when configured and
// affordable, fallback otherwise; fallback-fill for omitted ids either way
func (s *Summarizer) summarizeBatch(ctx context.Context, batch []model.Statement) *summarizeResult {
	if s.provider == nil {
		return &summarizeResult{summaries: fallbackBatch(batch)}
	}

	prompt := buildSummaryPrompt(batch)
	inUnits := budget.EstimateUnits(prompt)
	outUnits := len(batch) * 40

	if !s.ledger.CanAfford(s.model, inUnits, outUnits) {
		if s.verbose {
			fmt.Fprintf(os.Stderr, "budget denied summary batch of %d statements, using fallback\n", len(batch))
		}
		return &summarizeResult{summaries: fallbackBatch(batch)}
	}

	// Backpressure: respect the backend's rate limits between batches
	if err := s.pacer.Wait(ctx, s.model); err != nil {
		return &summarizeResult{summaries: fallbackBatch(batch), err: nil}
	}

	resp, err := s.provider.Generate(ctx, llm.GenerateRequest{
		Model:     s.model,
		System:    summarySystem,
		Prompt:    prompt,
		MaxTokens: outUnits + 200,
	})
	if err != nil {
		if s.verbose {
			fmt.Fprintf(os.Stderr, "summary backend error, using fallback: %v\n", err)
		}
		return &summarizeResult{summaries: fallbackBatch(batch)}
	}

	s.ledger.Record(resp.Model, resp.InputTokens, resp.OutputTokens)

	parsed := parseGlossLines(resp.Text, batch)

	// Fallback-fill: every statement the model omitted still gets a summary
	summaries := make([]model.Summary, len(batch))
	for i, st := range batch {
		if gloss, ok := parsed[st.ID]; ok {
			summaries[i] = model.Summary{StatementID: st.ID, Gloss: gloss}
		} else {
			summaries[i] = FallbackGloss(st)
		}
	}
	return &summarizeResult{summaries: summaries, usedAI: true}
}

// buildSummaryPrompt lists a batch as "id: text" lines with instructions
func buildSummaryPrompt(batch []model.Statement) string {
	var b strings.Builder
	b.WriteString("Summarize each numbered statement below in one sentence. ")
	b.WriteString("Keep the author's stance, sentiment, and intensity intact. ")
	b.WriteString("Reply with one line per statement in exactly the format \"id: summary\".\n\n")

	for _, st := range batch {
		b.WriteString(strconv.Itoa(st.ID))
		b.WriteString(": ")
		if st.ContextTitle != "" {
			b.WriteString("(re: ")
			b.WriteString(st.ContextTitle)
			b.WriteString(") ")
		}
		b.WriteString(st.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// parseGlossLines parses backend output defensively: lines that don't match
// the pattern or reference unknown ids are dropped silently.
func parseGlossLines(text string, batch []model.Statement) map[int]string {
	known := make(map[int]bool, len(batch))
	for _, st := range batch {
		known[st.ID] = true
	}

	parsed := make(map[int]string)
	for _, line := range strings.Split(text, "\n") {
		m := glossLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil || !known[id] {
			continue
		}
		gloss := strings.TrimSpace(m[2])
		if gloss == "" {
			continue
		}
		parsed[id] = gloss
	}
	return parsed
}
