package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Billable is implemented by every record that carries a total/paid balance
// reconciled through debts: amperes, expenses and generator expenses.
type Billable interface {
	BillableType() BillableType
	GetTotal() decimal.Decimal
	GetPaid() decimal.Decimal
	GetStatus() BillableStatus
	SetPaid(decimal.Decimal)
	SetStatus(BillableStatus)
}

// ErrNoGenerators reports that the caller's role scope covers no generators.
var ErrNoGenerators = errors.New("no generators found for this user")

// OverpaymentError rejects a repayment that would push a billable's paid
// balance past its total.
type OverpaymentError struct {
	Kind BillableType
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("repayment exceeds the remaining balance of the %s", e.Kind)
}

// DanglingReferenceError marks a debt whose billable record no longer exists.
type DanglingReferenceError struct {
	Kind BillableType
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s record not found", e.Kind)
}

// statusForBalance derives the payment status from the paid/total balance.
// A fully covered total is "paid", anything short of that is "loan".
func statusForBalance(paid, total decimal.Decimal) BillableStatus {
	if paid.GreaterThanOrEqual(total) {
		return BillableStatusPaid
	}
	return BillableStatusLoan
}

// validateBalance rejects a paid amount outside [0, total].
func validateBalance(paid, total decimal.Decimal) error {
	if total.IsNegative() {
		return errors.New("total cannot be negative")
	}
	if paid.IsNegative() {
		return errors.New("paid amount cannot be negative")
	}
	if paid.GreaterThan(total) {
		return errors.New("paid amount cannot exceed total")
	}
	return nil
}

// applyRepayment adds amount to the billable's paid balance and recomputes
// its status. The amount must not exceed the remaining balance.
func applyRepayment(b Billable, amount decimal.Decimal) error {
	remaining := b.GetTotal().Sub(b.GetPaid())
	if amount.GreaterThan(remaining) {
		return &OverpaymentError{Kind: b.BillableType()}
	}
	paid := b.GetPaid().Add(amount)
	b.SetPaid(paid)
	b.SetStatus(statusForBalance(paid, b.GetTotal()))
	return nil
}

// revertRepayment subtracts amount from the billable's paid balance and
// recomputes its status. The amount must not exceed the paid balance.
func revertRepayment(b Billable, amount decimal.Decimal) error {
	if amount.GreaterThan(b.GetPaid()) {
		return fmt.Errorf("cannot revert more than the paid balance of the %s", b.BillableType())
	}
	paid := b.GetPaid().Sub(amount)
	b.SetPaid(paid)
	b.SetStatus(statusForBalance(paid, b.GetTotal()))
	return nil
}
