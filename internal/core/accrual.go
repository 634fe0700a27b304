package core

import "fmt"

// Liability is the pair of independently assessed tax components for one
// user and one period.
type Liability struct {
	PollTax Money
	PapTax  Money
}

// Total is the combined charge for the period.
func (l Liability) Total() (Money, error) {
	return l.PollTax.Add(l.PapTax)
}

// ComputeLiability assesses both tax components from already-fetched inputs.
// It is pure: callers (the report service) are responsible for looking up
// flags, parameters, and the period's participation score, and for turning
// a missing TaxParameters row into ErrMissingTaxParameters before calling.
//
// When neither flag is set the result is zero without consulting params, so
// a caller may short-circuit the parameter lookup entirely for untaxed
// users.
func ComputeLiability(params TaxParameters, flags TaxableFlags, papScore int64) (Liability, error) {
	var out Liability
	if !flags.PollTax && !flags.PapTax {
		return out, nil
	}

	if flags.PollTax {
		out.PollTax = params.PollTax
	}

	if flags.PapTax {
		shortfall := params.PapStandard - papScore
		if shortfall > 0 {
			charge, err := params.PapRate.MulInt64(shortfall)
			if err != nil {
				return Liability{}, fmt.Errorf("pap charge for shortfall %d: %w", shortfall, err)
			}
			out.PapTax = charge
		}
	}

	return out, nil
}
