package analyze

import (
	"github.com/okarpov/turncoat/internal/budget"
	"github.com/okarpov/turncoat/internal/model"
)

// perStatementOverhead covers the id tag and framing text each statement
// adds to a batch prompt, in estimated tokens
const perStatementOverhead = 8

// Partition packs statements into batches whose estimated token total stays
// under tokenBudget. Chronological order of the input is preserved. A
// statement that alone exceeds the budget becomes its own singleton batch;
// nothing is ever dropped.
func Partition(statements []model.Statement, tokenBudget int) [][]model.Statement {
	if len(statements) == 0 {
		return nil
	}
	if tokenBudget <= 0 {
		tokenBudget = 2200
	}

	var batches [][]model.Statement
	var current []model.Statement
	currentTokens := 0

	for _, st := range statements {
		cost := budget.EstimateUnits(st.Text) + perStatementOverhead

		if len(current) > 0 && currentTokens+cost > tokenBudget {
			batches = append(batches, current)
			current = nil
			currentTokens = 0
		}
		current = append(current, st)
		currentTokens += cost
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
