// Package classifier names a spending category for a free-text transaction
// note via an external LLM service. Only the background worker holds this
// capability; the aggregation engine never depends on it.
package classifier

import (
	"context"

	"github.com/tongxing977-max/project50k-backend/internal/core"
)

// Expense and income categories the classifier may return.
var (
	ExpenseCategories = []string{"food", "coffee", "traffic", "shopping", "entertainment", "love", "family", "health", "AI_productivity", "other"}
	IncomeCategories  = []string{"salary", "bonus", "sidejob", "AI_productivity", "other"}
)

// Result is a structured classification of one ledger entry.
type Result struct {
	Category string `json:"category"`
	// IsLatte marks a non-essential, mood-driven purchase (the "latte
	// factor") for qualitative commentary only.
	IsLatte    bool    `json:"is_latte"`
	Comment    string  `json:"comment"`
	Confidence float64 `json:"confidence"`
}

// Classifier turns a transaction description into a category.
type Classifier interface {
	Classify(ctx context.Context, name string, amount core.Money, kind core.Kind) (Result, error)
}

// ValidCategory reports whether the classifier answered with a known
// category for the given kind.
func ValidCategory(category string, kind core.Kind) bool {
	categories := ExpenseCategories
	if kind == core.KindIncome {
		categories = IncomeCategories
	}
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
