package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestStatusForBalance(t *testing.T) {
	cases := []struct {
		name  string
		paid  int64
		total int64
		want  BillableStatus
	}{
		{"zero paid", 0, 1000, BillableStatusLoan},
		{"partially paid", 999, 1000, BillableStatusLoan},
		{"exactly paid", 1000, 1000, BillableStatusPaid},
		{"overpaid", 1001, 1000, BillableStatusPaid},
		{"zero total", 0, 0, BillableStatusPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := statusForBalance(d(tc.paid), d(tc.total))
			if got != tc.want {
				t.Errorf("statusForBalance(%d, %d) = %q, want %q", tc.paid, tc.total, got, tc.want)
			}
		})
	}
}

func TestValidateBalance(t *testing.T) {
	if err := validateBalance(d(500), d(1000)); err != nil {
		t.Errorf("validateBalance(500, 1000) = %v, want nil", err)
	}
	if err := validateBalance(d(1000), d(1000)); err != nil {
		t.Errorf("validateBalance(1000, 1000) = %v, want nil", err)
	}
	if err := validateBalance(d(1001), d(1000)); err == nil {
		t.Error("validateBalance(1001, 1000) = nil, want error")
	}
	if err := validateBalance(d(-1), d(1000)); err == nil {
		t.Error("validateBalance(-1, 1000) = nil, want error")
	}
	if err := validateBalance(d(0), d(-1)); err == nil {
		t.Error("validateBalance(0, -1) = nil, want error")
	}
}

func TestApplyRepayment(t *testing.T) {
	ampere := &Ampere{Total: d(1000), Paid: d(200), Status: BillableStatusLoan}

	if err := applyRepayment(ampere, d(300)); err != nil {
		t.Fatalf("applyRepayment(300): %v", err)
	}
	if !ampere.Paid.Equal(d(500)) {
		t.Errorf("paid = %s, want 500", ampere.Paid)
	}
	if ampere.Status != BillableStatusLoan {
		t.Errorf("status = %q, want loan", ampere.Status)
	}

	// More than the remaining 500 must be rejected and leave the balance alone.
	err := applyRepayment(ampere, d(501))
	if err == nil {
		t.Fatal("applyRepayment(501) = nil, want error")
	}
	var overpayment *OverpaymentError
	if !errors.As(err, &overpayment) {
		t.Errorf("applyRepayment(501) = %v, want *OverpaymentError", err)
	} else if overpayment.Kind != BillableTypeAmpere {
		t.Errorf("overpayment kind = %q, want %q", overpayment.Kind, BillableTypeAmpere)
	}
	if !ampere.Paid.Equal(d(500)) {
		t.Errorf("paid after rejected repayment = %s, want 500", ampere.Paid)
	}

	if err := applyRepayment(ampere, d(500)); err != nil {
		t.Fatalf("applyRepayment(500): %v", err)
	}
	if ampere.Status != BillableStatusPaid {
		t.Errorf("status at full balance = %q, want paid", ampere.Status)
	}
}

func TestRevertRepayment(t *testing.T) {
	expense := &Expense{Total: d(1000), Paid: d(1000), Status: BillableStatusPaid}

	if err := revertRepayment(expense, d(400)); err != nil {
		t.Fatalf("revertRepayment(400): %v", err)
	}
	if !expense.Paid.Equal(d(600)) {
		t.Errorf("paid = %s, want 600", expense.Paid)
	}
	if expense.Status != BillableStatusLoan {
		t.Errorf("status = %q, want loan", expense.Status)
	}

	if err := revertRepayment(expense, d(601)); err == nil {
		t.Fatal("revertRepayment(601) = nil, want error")
	}
	if !expense.Paid.Equal(d(600)) {
		t.Errorf("paid after rejected revert = %s, want 600", expense.Paid)
	}
}
