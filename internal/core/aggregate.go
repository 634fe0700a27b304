package core

import "fmt"

// PeriodCharge is one assessed month for one user: what was owed in each
// component and what was actually paid in.
type PeriodCharge struct {
	Period  Period
	PollTax Money
	PapTax  Money
	Paid    Money
}

// UnpaidTotal folds per-period charges into the cumulative outstanding
// balance: sum of owed minus sum of paid. A negative result is a credit
// (overpayment) and is a valid, reportable state.
func UnpaidTotal(charges []PeriodCharge) (Money, error) {
	var owed, paid Money
	var err error
	for _, c := range charges {
		if owed, err = owed.Add(c.PollTax); err != nil {
			return Money{}, fmt.Errorf("sum owed for %s: %w", c.Period, err)
		}
		if owed, err = owed.Add(c.PapTax); err != nil {
			return Money{}, fmt.Errorf("sum owed for %s: %w", c.Period, err)
		}
		if paid, err = paid.Add(c.Paid); err != nil {
			return Money{}, fmt.Errorf("sum paid for %s: %w", c.Period, err)
		}
	}
	return owed.Sub(paid)
}
