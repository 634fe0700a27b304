package core

import "testing"

func params(pollCents, rateCents, standard int64) TaxParameters {
	return TaxParameters{
		PollTax:     NewMoney(pollCents),
		PapRate:     NewMoney(rateCents),
		PapStandard: standard,
	}
}

func TestComputeLiability(t *testing.T) {
	tests := []struct {
		name     string
		params   TaxParameters
		flags    TaxableFlags
		papScore int64
		wantPoll int64
		wantPap  int64
	}{
		{
			name:     "both flags off is zero regardless of params",
			params:   params(50_00, 5_00, 100),
			flags:    TaxableFlags{},
			papScore: 0,
			wantPoll: 0,
			wantPap:  0,
		},
		{
			name:     "poll only",
			params:   params(50_00, 5_00, 100),
			flags:    TaxableFlags{PollTax: true},
			papScore: 0,
			wantPoll: 50_00,
			wantPap:  0,
		},
		{
			name:     "score meets standard, no pap charge",
			params:   params(50_00, 5_00, 100),
			flags:    TaxableFlags{PollTax: true, PapTax: true},
			papScore: 150,
			wantPoll: 50_00,
			wantPap:  0,
		},
		{
			name:     "shortfall of 40 at rate 5.00 charges 200.00",
			params:   params(0, 5_00, 100),
			flags:    TaxableFlags{PapTax: true},
			papScore: 60,
			wantPoll: 0,
			wantPap:  200_00,
		},
		{
			name:     "score exactly at standard",
			params:   params(0, 5_00, 100),
			flags:    TaxableFlags{PapTax: true},
			papScore: 100,
			wantPoll: 0,
			wantPap:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeLiability(tt.params, tt.flags, tt.papScore)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.PollTax != NewMoney(tt.wantPoll) {
				t.Errorf("poll tax = %v, want %v", got.PollTax, NewMoney(tt.wantPoll))
			}
			if got.PapTax != NewMoney(tt.wantPap) {
				t.Errorf("pap tax = %v, want %v", got.PapTax, NewMoney(tt.wantPap))
			}
		})
	}
}

func TestLiabilityTotal(t *testing.T) {
	l := Liability{PollTax: NewMoney(50_00), PapTax: NewMoney(200_00)}
	total, err := l.Total()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != NewMoney(250_00) {
		t.Fatalf("total = %v, want 250.00", total)
	}
}

func TestUnpaidTotal(t *testing.T) {
	jul := Period{Year: 2025, Month: 7}
	aug := Period{Year: 2025, Month: 8}

	tests := []struct {
		name    string
		charges []PeriodCharge
		want    int64
	}{
		{
			name:    "empty is zero",
			charges: nil,
			want:    0,
		},
		{
			name: "overpayment yields a credit",
			charges: []PeriodCharge{
				{Period: jul, PollTax: NewMoney(50_00), Paid: NewMoney(80_00)},
			},
			want: -30_00,
		},
		{
			name: "multiple periods accumulate",
			charges: []PeriodCharge{
				{Period: jul, PollTax: NewMoney(50_00), PapTax: NewMoney(200_00), Paid: NewMoney(100_00)},
				{Period: aug, PollTax: NewMoney(50_00), Paid: NewMoney(0)},
			},
			want: 200_00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnpaidTotal(tt.charges)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != NewMoney(tt.want) {
				t.Fatalf("unpaid = %v, want %v", got, NewMoney(tt.want))
			}
		})
	}
}
