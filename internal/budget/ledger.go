package budget

import (
	"sync"
	"time"
)

// ModelPrice is the metered cost of a backend model per 1K estimated tokens
type ModelPrice struct {
	InputPer1K  float64
	OutputPer1K float64
}

// priceTable maps backend model identifiers to their metered cost. Models
// absent from the table (local Ollama models, anything unknown) are free.
var priceTable = map[string]ModelPrice{
	"gpt-4o-mini":               {InputPer1K: 0.00015, OutputPer1K: 0.0006},
	"gpt-4o":                    {InputPer1K: 0.0025, OutputPer1K: 0.01},
	"gpt-4.1-mini":              {InputPer1K: 0.0004, OutputPer1K: 0.0016},
	"claude-3-5-haiku-20241022": {InputPer1K: 0.0008, OutputPer1K: 0.004},
	"claude-sonnet-4-20250514":  {InputPer1K: 0.003, OutputPer1K: 0.015},
}

// Entry is one append-only ledger record
type Entry struct {
	Model       string    `json:"model"`
	InputUnits  int       `json:"input_units"`
	OutputUnits int       `json:"output_units"`
	Cost        float64   `json:"cost"`
	Timestamp   time.Time `json:"timestamp"`
}

// Status is a point-in-time view of session spend
type Status struct {
	Spent     float64 `json:"spent"`
	Cap       float64 `json:"cap"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"`
	Warning   bool    `json:"warning"`
	Exceeded  bool    `json:"exceeded"`
}

// Ledger tracks estimated spend against a per-session dollar cap. Spend is
// monotonically non-decreasing; only an explicit Reset lowers it. Safe for
// concurrent use.
type Ledger struct {
	mu       sync.Mutex
	cap      float64
	warnFrac float64
	entries  []Entry
	spent    float64
}

// NewLedger creates a ledger with the given session cap in dollars
func NewLedger(cap, warnFrac float64) *Ledger {
	if cap <= 0 {
		cap = 1.00
	}
	if warnFrac <= 0 || warnFrac >= 1 {
		warnFrac = 0.8
	}
	return &Ledger{cap: cap, warnFrac: warnFrac}
}

// EstimateUnits converts raw text length to an approximate token count
// (roughly 4 characters per token for English text)
func EstimateUnits(text string) int {
	units := len(text) / 4
	if units < 1 && len(text) > 0 {
		units = 1
	}
	return units
}

// Price returns the model's price entry; free models return a zero price
func Price(modelName string) ModelPrice {
	return priceTable[modelName]
}

// EstimateCost computes the estimated dollar cost of a call
func EstimateCost(modelName string, inputUnits, outputUnits int) float64 {
	price := priceTable[modelName]
	return float64(inputUnits)/1000.0*price.InputPer1K +
		float64(outputUnits)/1000.0*price.OutputPer1K
}

// CanAfford reports whether the estimated cost of a call fits under the
// cap. A spent-out ledger denies every call, including free ones, so an
// unmetered backend can't keep going past the cap.
func (l *Ledger) CanAfford(modelName string, inputUnits, outputUnits int) bool {
	cost := EstimateCost(modelName, inputUnits, outputUnits)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.spent >= l.cap {
		return false
	}
	return l.spent+cost <= l.cap
}

// Record appends a ledger entry and updates the running total, returning
// the recorded cost
func (l *Ledger) Record(modelName string, inputUnits, outputUnits int) float64 {
	cost := EstimateCost(modelName, inputUnits, outputUnits)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{
		Model:       modelName,
		InputUnits:  inputUnits,
		OutputUnits: outputUnits,
		Cost:        cost,
		Timestamp:   time.Now().UTC(),
	})
	l.spent += cost
	return cost
}

// Status returns spent/remaining totals and the warning/exceeded flags
func (l *Ledger) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.cap - l.spent
	if remaining < 0 {
		remaining = 0
	}
	percent := l.spent / l.cap * 100
	if percent > 100 {
		percent = 100
	}
	return Status{
		Spent:     l.spent,
		Cap:       l.cap,
		Remaining: remaining,
		Percent:   percent,
		Warning:   l.spent >= l.cap*l.warnFrac,
		Exceeded:  l.spent >= l.cap,
	}
}

// Exceeded reports whether the session cap has been reached
func (l *Ledger) Exceeded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.spent >= l.cap
}

// Entries returns a copy of the append-only entry list
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Reset clears all entries and the running total
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.spent = 0
}
