package analyze

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okarpov/turncoat/internal/budget"
	"github.com/okarpov/turncoat/internal/llm"
	"github.com/okarpov/turncoat/internal/model"
	"github.com/okarpov/turncoat/internal/sentiment"
)

const contradictionSystem = "You find genuine opinion reversals in a person's statement history. " +
	"Only report direct, same-topic reversals. Do not report normal opinion evolution over long " +
	"periods, tone differences between unrelated posts, sarcasm, or hypothetical statements."

// aiBaseConfidence is the starting confidence for a backend-reported finding
const aiBaseConfidence = 75

// contradictionLine matches "Contradiction between <id> and <id>: <description>"
var contradictionLine = regexp.MustCompile(`(?i)^\s*contradiction between\s+(\d+)\s+and\s+(\d+)\s*:\s*(.+)$`)

// satireMarkers flag venues whose content is jokes, not positions
var satireMarkers = []string{"circlejerk", "satire", "jokes", "memes", "shitpost", "parody", "theonion"}

// strongOpposition phrases in a description raise confidence
var strongOpposition = []string{
	"completely opposite", "total reversal", "direct contradiction",
	"exact opposite", "complete reversal", "directly contradicts",
	"polar opposite", "full reversal",
}

// Detector runs the contradiction stage: one holistic backend call over
// the full summary set, or a lexical scan of the candidate pairs when the
// backend is unavailable or budget-denied.
type Detector struct {
	provider    llm.Provider
	ledger      *budget.Ledger
	model       string
	maxFindings int
	verbose     bool
}

// NewDetector creates the contradiction stage. A nil provider routes to
// the heuristic detector.
func NewDetector(provider llm.Provider, ledger *budget.Ledger, modelName string, maxFindings int, verbose bool) *Detector {
	if maxFindings <= 0 {
		maxFindings = 12
	}
	return &Detector{
		provider:    provider,
		ledger:      ledger,
		model:       modelName,
		maxFindings: maxFindings,
		verbose:     verbose,
	}
}

// Detect returns findings ordered by descending confidence, capped. The
// flag reports whether the backend produced them.
func (d *Detector) Detect(ctx context.Context, statements []model.Statement, summaries []model.Summary, pairs []model.CandidatePair) ([]model.Finding, bool) {
	byID := make(map[int]model.Statement, len(statements))
	for _, st := range statements {
		byID[st.ID] = st
	}

	if d.provider != nil && len(summaries) > 0 {
		findings, ok := d.detectAI(ctx, byID, summaries)
		if ok {
			return d.cap(findings), true
		}
	}
	return d.cap(d.detectHeuristic(byID, pairs)), false
}

func (d *Detector) detectAI(ctx context.Context, byID map[int]model.Statement, summaries []model.Summary) ([]model.Finding, bool) {
	prompt := buildContradictionPrompt(summaries)
	inUnits := budget.EstimateUnits(prompt)
	outUnits := 600

	if !d.ledger.CanAfford(d.model, inUnits, outUnits) {
		if d.verbose {
			fmt.Fprintf(os.Stderr, "budget denied contradiction call, using heuristic detector\n")
		}
		return nil, false
	}

	resp, err := d.provider.Generate(ctx, llm.GenerateRequest{
		Model:     d.model,
		System:    contradictionSystem,
		Prompt:    prompt,
		MaxTokens: outUnits,
	})
	if err != nil {
		if d.verbose {
			fmt.Fprintf(os.Stderr, "contradiction backend error, using heuristic detector: %v\n", err)
		}
		return nil, false
	}

	d.ledger.Record(resp.Model, resp.InputTokens, resp.OutputTokens)

	var findings []model.Finding
	seen := make(map[[2]int]bool)
	for _, line := range strings.Split(resp.Text, "\n") {
		m := contradictionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		leftID, err1 := strconv.Atoi(m[1])
		rightID, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil || leftID == rightID {
			continue
		}
		// Untrusted model output: drop references to unknown statements
		left, okL := byID[leftID]
		right, okR := byID[rightID]
		if !okL || !okR {
			continue
		}
		key := [2]int{min(leftID, rightID), max(leftID, rightID)}
		if seen[key] {
			continue
		}
		seen[key] = true

		desc := strings.TrimSpace(m[3])
		confidence := scoreAIConfidence(left, right, desc)
		findings = append(findings, model.NewFinding(
			leftID, rightID, desc, confidence,
			sentiment.Categorize(left.Text, right.Text),
			model.SourceAI,
		))
	}
	return findings, true
}

// scoreAIConfidence adjusts the base confidence for contextual proximity,
// satirical venues, and strong-opposition language. Clamping happens in
// model.NewFinding.
func scoreAIConfidence(left, right model.Statement, desc string) int {
	confidence := aiBaseConfidence

	gap := time.Duration(right.Timestamp-left.Timestamp) * time.Second
	if gap < 0 {
		gap = -gap
	}
	// Close-together statements are more likely contextual than reversed
	if gap < 24*time.Hour {
		confidence -= 15
	} else if gap < 7*24*time.Hour {
		confidence -= 8
	}

	for _, venue := range []string{left.Venue, right.Venue} {
		lower := strings.ToLower(venue)
		for _, marker := range satireMarkers {
			if strings.Contains(lower, marker) {
				confidence -= 10
				break
			}
		}
	}

	lowerDesc := strings.ToLower(desc)
	for _, phrase := range strongOpposition {
		if strings.Contains(lowerDesc, phrase) {
			confidence += 10
			break
		}
	}
	return confidence
}

// detectHeuristic scans the candidate pairs for lexical antonym pairs
// within texts that share topic words
func (d *Detector) detectHeuristic(byID map[int]model.Statement, pairs []model.CandidatePair) []model.Finding {
	var findings []model.Finding
	for _, pair := range pairs {
		left, okL := byID[pair.LeftID]
		right, okR := byID[pair.RightID]
		if !okL || !okR {
			continue
		}

		opposition := findOpposition(left.Text, right.Text)
		if opposition == nil {
			continue
		}
		shared := sentiment.SharedWords(left.Text, right.Text)
		if len(shared) == 0 {
			continue
		}
		sort.Strings(shared)
		topic := shared[0]

		confidence := 60 + int(pair.Potential*4)
		desc := fmt.Sprintf("Shifted from %q to %q regarding %s", opposition.A, opposition.B, topic)
		findings = append(findings, model.NewFinding(
			pair.LeftID, pair.RightID, desc, confidence,
			sentiment.Categorize(left.Text, right.Text),
			model.SourceHeuristic,
		))
	}
	return findings
}

// findOpposition returns the first antonym pair split across the two
// texts, oriented earlier-text-first
func findOpposition(earlier, later string) *sentiment.OpposingPair {
	wa := sentiment.ContentWords(earlier)
	wb := sentiment.ContentWords(later)
	for _, pair := range sentiment.OpposingPairs {
		if wa[pair.A] && wb[pair.B] {
			p := pair
			return &p
		}
		if wa[pair.B] && wb[pair.A] {
			return &sentiment.OpposingPair{A: pair.B, B: pair.A}
		}
	}
	return nil
}

// cap sorts findings by descending confidence and truncates to the bound
func (d *Detector) cap(findings []model.Finding) []model.Finding {
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Confidence > findings[j].Confidence
	})
	if len(findings) > d.maxFindings {
		findings = findings[:d.maxFindings]
	}
	return findings
}

// buildContradictionPrompt lists every summary and asks for the fixed
// output line format
func buildContradictionPrompt(summaries []model.Summary) string {
	var b strings.Builder
	b.WriteString("Below are numbered summaries of one person's statements, oldest first. ")
	b.WriteString("Identify pairs that genuinely contradict each other: direct, same-topic opinion reversals only. ")
	b.WriteString("For each, reply with exactly one line in the format:\n")
	b.WriteString("Contradiction between <id> and <id>: <one-sentence description>\n")
	b.WriteString("If there are none, reply \"No contradictions found.\"\n\n")

	for _, s := range summaries {
		b.WriteString(strconv.Itoa(s.StatementID))
		b.WriteString(": ")
		b.WriteString(s.Gloss)
		b.WriteString("\n")
	}
	return b.String()
}
