package models

import "testing"

func TestDebtBillableRef(t *testing.T) {
	ampereId, expenseId := 1, 2

	debt := Debt{AmpereId: &ampereId}
	billableType, refId, err := debt.billableRef()
	if err != nil {
		t.Fatalf("billableRef: %v", err)
	}
	if billableType != BillableTypeAmpere || refId != 1 {
		t.Errorf("billableRef = (%q, %d), want (ampere, 1)", billableType, refId)
	}

	none := Debt{}
	if _, _, err := none.billableRef(); err == nil {
		t.Error("debt without a reference should fail")
	}

	both := Debt{AmpereId: &ampereId, ExpenseId: &expenseId}
	if _, _, err := both.billableRef(); err == nil {
		t.Error("debt with two references should fail")
	}
}
