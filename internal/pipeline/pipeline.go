package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/okarpov/turncoat/internal/analyze"
	"github.com/okarpov/turncoat/internal/budget"
	"github.com/okarpov/turncoat/internal/cache"
	"github.com/okarpov/turncoat/internal/llm"
	"github.com/okarpov/turncoat/internal/model"
	"github.com/okarpov/turncoat/internal/normalize"
	"github.com/okarpov/turncoat/internal/relevance"
	"github.com/okarpov/turncoat/internal/report"
	"github.com/okarpov/turncoat/internal/source"
	"github.com/okarpov/turncoat/internal/worker"
)

// ErrSourceUnavailable wraps a statement source failure. Analyze still
// returns a well-formed explanatory report alongside it.
var ErrSourceUnavailable = errors.New("source unavailable")

// Pipeline orchestrates one analysis run: cache lookup, normalization,
// relevance filtering, batched summarization, contradiction detection, and
// report assembly. All collaborators are injected; the pipeline holds no
// global state.
type Pipeline struct {
	src        source.Source
	normalizer *normalize.Normalizer
	selector   *relevance.Selector
	summarizer *analyze.Summarizer
	detector   *analyze.Detector
	assembler  *report.Assembler
	ledger     *budget.Ledger
	results    *cache.ResultCache // nil disables caching
	verbose    bool

	batchBudget int // estimated tokens per summarization batch
}

// New creates a pipeline from explicitly constructed collaborators
func New(cfg *model.Config, src source.Source, provider llm.Provider, ledger *budget.Ledger, results *cache.ResultCache) *Pipeline {
	pacer := worker.NewPacer(cfg.Analysis.BatchDelay)

	summaryModel := cfg.LLM.SummaryModel
	analysisModel := cfg.LLM.AnalysisModel
	if analysisModel == "" {
		analysisModel = summaryModel
	}

	return &Pipeline{
		src:         src,
		normalizer:  normalize.NewNormalizer(cfg.Analysis.MinStatementLength),
		selector:    relevance.NewSelector(cfg.Analysis.TopStatements, cfg.Analysis.MaxCandidatePairs, cfg.Analysis.PairMinGap),
		summarizer:  analyze.NewSummarizer(provider, ledger, pacer, summaryModel, cfg.Analysis.BatchConcurrency, cfg.Output.Verbose),
		detector:    analyze.NewDetector(provider, ledger, analysisModel, cfg.Analysis.MaxFindings, cfg.Output.Verbose),
		assembler:   report.NewAssembler(cfg.Output.IncludeStatements),
		ledger:      ledger,
		results:     results,
		verbose:     cfg.Output.Verbose,
		batchBudget: cfg.Analysis.BatchTokenBudget,
	}
}

// NewFromConfig wires default collaborators: the Reddit source, the
// configured LLM provider, a fresh ledger, and the disk-backed cache
func NewFromConfig(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}

	ledger := budget.NewLedger(cfg.Budget.SessionCap, cfg.Budget.WarningThreshold)
	if cfg.Budget.PersistPath != "" {
		if err := ledger.Load(cfg.Budget.PersistPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load budget ledger: %v\n", err)
		}
	}

	var results *cache.ResultCache
	if cfg.Cache.Enabled {
		results, err = cache.NewResultCache(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.MaxEntries)
		if err != nil {
			return nil, fmt.Errorf("init result cache: %w", err)
		}
	}

	return New(cfg, source.NewRedditClient(cfg.Source), provider, ledger, results), nil
}

// Ledger exposes the budget ledger for status queries
func (p *Pipeline) Ledger() *budget.Ledger {
	return p.ledger
}

// Cache exposes the result cache, or nil when caching is disabled
func (p *Pipeline) Cache() *cache.ResultCache {
	return p.results
}

// Analyze runs the full pipeline for one subject. It always returns a
// well-formed report; the error is non-nil only when the statement source
// failed outright.
func (p *Pipeline) Analyze(ctx context.Context, subject string) (*model.Report, error) {
	items, err := p.src.Fetch(ctx, subject)
	if err != nil {
		rep := p.assembler.Assemble(subject, nil, nil, nil, model.ModeHeuristic)
		rep.Narrative = fmt.Sprintf("Could not retrieve content for %s: the statement source is unavailable. %s",
			subject, rep.Narrative)
		return rep, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	// Fingerprint before any processing: count + newest timestamp of the
	// raw item set, so fresh activity invalidates the cached report
	fingerprint := cache.Fingerprint(len(items), latestTimestamp(items))
	if p.results != nil {
		if cached, ok := p.results.Get(subject, fingerprint); ok {
			if p.verbose {
				fmt.Fprintf(os.Stderr, "cache hit for %s\n", subject)
			}
			return cached, nil
		}
	}

	statements := p.normalizer.Normalize(items)
	if len(statements) == 0 {
		rep := p.assembler.Assemble(subject, nil, nil, nil, model.ModeHeuristic)
		if p.results != nil {
			p.cacheSet(subject, fingerprint, rep)
		}
		return rep, nil
	}

	retained := p.selector.Filter(statements)
	pairs := p.selector.Candidates(retained)
	batches := analyze.Partition(retained, p.batchBudget)

	if p.verbose {
		fmt.Fprintf(os.Stderr, "retained %d/%d statements, %d candidate pairs, %d batches\n",
			len(retained), len(statements), len(pairs), len(batches))
	}

	summaries, summaryAI := p.summarizer.Summarize(ctx, batches)
	findings, detectAI := p.detector.Detect(ctx, retained, summaries, pairs)

	rep := p.assembler.Assemble(subject, retained, summaries, findings, mode(summaryAI, detectAI))
	if p.results != nil {
		p.cacheSet(subject, fingerprint, rep)
	}
	return rep, nil
}

func (p *Pipeline) cacheSet(subject, fingerprint string, rep *model.Report) {
	if err := p.results.Set(subject, fingerprint, rep); err != nil {
		// Cache loss costs performance, not correctness
		fmt.Fprintf(os.Stderr, "Warning: failed to persist cache: %v\n", err)
	}
}

func mode(summaryAI, detectAI bool) model.AnalysisMode {
	switch {
	case summaryAI && detectAI:
		return model.ModeAI
	case summaryAI || detectAI:
		return model.ModeMixed
	default:
		return model.ModeHeuristic
	}
}

func latestTimestamp(items []model.RawItem) int64 {
	var latest int64
	for _, item := range items {
		if item.Timestamp > latest {
			latest = item.Timestamp
		}
	}
	return latest
}
