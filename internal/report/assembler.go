package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/okarpov/turncoat/internal/model"
	"github.com/okarpov/turncoat/internal/sentiment"
)

// timelineWindow is how many trailing statements appear on the timeline
const timelineWindow = 20

// topVenueCount bounds the top-venues list
const topVenueCount = 3

// Assembler folds statements, summaries, and findings into the final
// report. Pure aggregation; cannot fail.
type Assembler struct {
	includeStatements bool
}

// NewAssembler creates an assembler
func NewAssembler(includeStatements bool) *Assembler {
	return &Assembler{includeStatements: includeStatements}
}

// Assemble builds the report for one completed analysis run
func (a *Assembler) Assemble(subject string, statements []model.Statement, summaries []model.Summary, findings []model.Finding, mode model.AnalysisMode) *model.Report {
	rep := &model.Report{
		Subject:    subject,
		AnalyzedAt: time.Now().UTC(),
		Mode:       mode,
		Findings:   findings,
		Timeline:   buildTimeline(statements),
		Stats:      buildStats(statements),
	}
	rep.Narrative = buildNarrative(subject, statements, findings, mode)

	if a.includeStatements {
		rep.Statements = statements
		rep.Summaries = summaries
	}
	return rep
}

func buildTimeline(statements []model.Statement) []model.TimelineEntry {
	start := 0
	if len(statements) > timelineWindow {
		start = len(statements) - timelineWindow
	}

	var timeline []model.TimelineEntry
	for _, st := range statements[start:] {
		excerpt := st.Text
		if len(excerpt) > 100 {
			n := 100
			// Back up to a rune boundary so multi-byte characters stay intact
			for n > 0 && !utf8.RuneStart(excerpt[n]) {
				n--
			}
			excerpt = excerpt[:n] + "..."
		}
		timeline = append(timeline, model.TimelineEntry{
			Timestamp: st.Timestamp,
			Excerpt:   excerpt,
			Venue:     st.Venue,
			Weight:    st.Weight,
		})
	}
	return timeline
}

func buildStats(statements []model.Statement) model.Stats {
	stats := model.Stats{TotalStatements: len(statements)}
	if len(statements) == 0 {
		stats.TimespanLabel = "no activity"
		return stats
	}

	stats.TimespanLabel = timespanLabel(statements[0].Timestamp, statements[len(statements)-1].Timestamp)
	stats.TopVenues = topVenues(statements)
	stats.SentimentDelta = sentimentDelta(statements)
	return stats
}

// timespanLabel buckets the covered period into days, months, or years
func timespanLabel(first, last int64) string {
	days := int(time.Duration(last-first) * time.Second / (24 * time.Hour))
	switch {
	case days < 1:
		return "less than a day"
	case days < 60:
		return fmt.Sprintf("%d days", days)
	case days < 730:
		return fmt.Sprintf("%d months", days/30)
	default:
		return fmt.Sprintf("%d years", days/365)
	}
}

func topVenues(statements []model.Statement) []string {
	counts := make(map[string]int)
	for _, st := range statements {
		if st.Venue != "" {
			counts[st.Venue]++
		}
	}

	venues := make([]string, 0, len(counts))
	for v := range counts {
		venues = append(venues, v)
	}
	sort.Slice(venues, func(i, j int) bool {
		if counts[venues[i]] != counts[venues[j]] {
			return counts[venues[i]] > counts[venues[j]]
		}
		return venues[i] < venues[j]
	})

	if len(venues) > topVenueCount {
		venues = venues[:topVenueCount]
	}
	return venues
}

// sentimentDelta compares the mean lexical sentiment of the most recent
// third of statements against the oldest third
func sentimentDelta(statements []model.Statement) float64 {
	third := len(statements) / 3
	if third == 0 {
		return 0
	}

	mean := func(sts []model.Statement) float64 {
		total := 0.0
		for _, st := range sts {
			total += sentiment.Score(st.Text)
		}
		return total / float64(len(sts))
	}
	return mean(statements[len(statements)-third:]) - mean(statements[:third])
}

func buildNarrative(subject string, statements []model.Statement, findings []model.Finding, mode model.AnalysisMode) string {
	if len(statements) == 0 {
		return fmt.Sprintf("No analyzable content was available for %s. "+
			"The account may be empty, deleted, or contain only statements too short to analyze.", subject)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed %d statements from %s. ", len(statements), subject)

	highConf := 0
	review := 0
	for _, f := range findings {
		if f.RequiresReview {
			review++
		} else {
			highConf++
		}
	}

	switch {
	case len(findings) == 0:
		b.WriteString("No contradictions were detected; the account's stated opinions appear consistent over time. ")
	case highConf > 0 && review > 0:
		fmt.Fprintf(&b, "Found %d contradictions: %d high-confidence and %d flagged for review. ", len(findings), highConf, review)
	case highConf > 0:
		fmt.Fprintf(&b, "Found %d high-confidence contradictions. ", highConf)
	default:
		fmt.Fprintf(&b, "Found %d possible contradictions, all low-confidence and pending review. ", review)
	}

	switch mode {
	case model.ModeAI:
		b.WriteString("Analysis used AI summarization and cross-comparison.")
	case model.ModeMixed:
		b.WriteString("Analysis partially used AI; some stages ran in heuristic fallback mode, so treat borderline findings with care.")
	default:
		b.WriteString("Analysis ran entirely in heuristic fallback mode (no AI backend was available); findings are keyword-based approximations.")
	}
	return b.String()
}
