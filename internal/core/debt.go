package core

// ApplyPayment reduces a debt's remaining balance by amount and returns the
// new debt value; the input is never mutated. Negative amounts are rejected
// before any state change. Overpayment clamps the balance at zero instead
// of carrying a credit, and a debt whose balance reaches zero flips to
// cleared and never re-opens here.
func ApplyPayment(d Debt, amount Money) (Debt, error) {
	if amount.IsNegative() {
		return Debt{}, ErrInvalidAmount
	}
	remaining := d.RemainingAmount.Cents - amount.Cents
	if remaining < 0 {
		remaining = 0
	}
	d.RemainingAmount = Money{Cents: remaining}
	d.Cleared = remaining == 0
	return d, nil
}

// DebtProgressPercent reports how much of the principal has been paid off,
// as a percentage in [0, 100] with one decimal. A zero principal yields 0.
func DebtProgressPercent(d Debt) float64 {
	return Percent1(d.TotalAmount.Cents-d.RemainingAmount.Cents, d.TotalAmount.Cents)
}
