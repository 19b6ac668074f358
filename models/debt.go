package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codezana/generator-system-api/config"
	"github.com/codezana/generator-system-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Debt is a partial repayment booked against exactly one billable record:
// an ampere bill, an expense or a generator expense. Creating, amending or
// deleting a debt moves the billable's paid balance and status with it,
// inside one transaction with the billable row locked.
type Debt struct {
	ID               int               `gorm:"primary_key" json:"id"`
	AmpereId         *int              `gorm:"index" json:"ampere_id"`
	ExpenseId        *int              `gorm:"index" json:"expense_id"`
	GeexpenseId      *int              `gorm:"index" json:"geexpense_id"`
	UserId           int               `gorm:"index;not null" json:"user_id"`
	Paid             decimal.Decimal   `gorm:"type:decimal(20,0);not null" json:"paid"`
	DueDate          DateOnly          `gorm:"not null" json:"due_date"`
	User             *User             `gorm:"foreignKey:UserId" json:"user,omitempty"`
	Ampere           *Ampere           `gorm:"foreignKey:AmpereId;constraint:OnDelete:CASCADE" json:"ampere,omitempty"`
	Expense          *Expense          `gorm:"foreignKey:ExpenseId;constraint:OnDelete:CASCADE" json:"expense,omitempty"`
	GeneratorExpense *GeneratorExpense `gorm:"foreignKey:GeexpenseId;constraint:OnDelete:CASCADE" json:"generator_expense,omitempty"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewDebt struct {
	AmpereId    *int            `json:"ampere_id"`
	ExpenseId   *int            `json:"expense_id"`
	GeexpenseId *int            `json:"geexpense_id"`
	Paid        decimal.Decimal `json:"paid" binding:"required"`
	DueDate     DateOnly        `json:"due_date" binding:"required"`
}

// UpdateDebtInput amends the repayment amount or due date. The billable
// reference is fixed at creation and cannot be changed.
type UpdateDebtInput struct {
	Paid    *decimal.Decimal `json:"paid"`
	DueDate *DateOnly        `json:"due_date"`
}

// billableRef resolves the debt's single billable reference.
func (d *Debt) billableRef() (BillableType, int, error) {
	refs := 0
	var billableType BillableType
	var refId int
	if d.AmpereId != nil {
		refs++
		billableType, refId = BillableTypeAmpere, *d.AmpereId
	}
	if d.ExpenseId != nil {
		refs++
		billableType, refId = BillableTypeExpense, *d.ExpenseId
	}
	if d.GeexpenseId != nil {
		refs++
		billableType, refId = BillableTypeGeneratorExpense, *d.GeexpenseId
	}
	if refs != 1 {
		return "", 0, errors.New("a debt must reference exactly one of ampere, expense or generator expense")
	}
	return billableType, refId, nil
}

// fetchBillableForUpdate loads the referenced billable inside the
// transaction with a row lock, so concurrent repayments serialize.
func (d *Debt) fetchBillableForUpdate(tx *gorm.DB) (Billable, error) {
	forUpdate := tx.Clauses(clause.Locking{Strength: "UPDATE"})
	switch {
	case d.AmpereId != nil:
		var ampere Ampere
		if err := forUpdate.First(&ampere, *d.AmpereId).Error; err != nil {
			return nil, &DanglingReferenceError{Kind: BillableTypeAmpere}
		}
		return &ampere, nil
	case d.ExpenseId != nil:
		var expense Expense
		if err := forUpdate.First(&expense, *d.ExpenseId).Error; err != nil {
			return nil, &DanglingReferenceError{Kind: BillableTypeExpense}
		}
		return &expense, nil
	case d.GeexpenseId != nil:
		var genExpense GeneratorExpense
		if err := forUpdate.First(&genExpense, *d.GeexpenseId).Error; err != nil {
			return nil, &DanglingReferenceError{Kind: BillableTypeGeneratorExpense}
		}
		return &genExpense, nil
	}
	return nil, errors.New("a debt must reference exactly one of ampere, expense or generator expense")
}

func saveBillableBalance(tx *gorm.DB, b Billable) error {
	return tx.Model(b).Updates(map[string]interface{}{
		"Paid":   b.GetPaid(),
		"Status": b.GetStatus(),
	}).Error
}

func billableLockKey(billableType BillableType, refId int) string {
	return fmt.Sprintf("BillableLock:%s:%d", billableType, refId)
}

func CreateDebt(ctx context.Context, input *NewDebt) (*Debt, error) {

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}

	if input.Paid.LessThan(decimal.NewFromInt(1)) {
		return nil, errors.New("paid amount must be at least 1")
	}

	debt := Debt{
		AmpereId:    input.AmpereId,
		ExpenseId:   input.ExpenseId,
		GeexpenseId: input.GeexpenseId,
		UserId:      userId,
		Paid:        input.Paid,
		DueDate:     input.DueDate,
	}
	billableType, refId, err := debt.billableRef()
	if err != nil {
		return nil, err
	}

	lock := utils.ObtainLock(ctx, billableLockKey(billableType, refId), "debt", "CreateDebt")
	defer utils.ReleaseLock(ctx, lock)

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()

	billable, err := debt.fetchBillableForUpdate(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := applyRepayment(billable, input.Paid); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := saveBillableBalance(tx, billable); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Create(&debt).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return GetDebt(ctx, debt.ID)
}

func UpdateDebt(ctx context.Context, id int, input *UpdateDebtInput) (*Debt, error) {

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}

	if input.Paid != nil && input.Paid.LessThan(decimal.NewFromInt(1)) {
		return nil, errors.New("paid amount must be at least 1")
	}

	existing, err := utils.FetchModel[Debt](ctx, id)
	if err != nil {
		return nil, err
	}
	billableType, refId, err := existing.billableRef()
	if err != nil {
		return nil, err
	}

	lock := utils.ObtainLock(ctx, billableLockKey(billableType, refId), "debt", "UpdateDebt")
	defer utils.ReleaseLock(ctx, lock)

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()

	var debt Debt
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&debt, id).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	updates := map[string]interface{}{}
	if input.DueDate != nil {
		updates["DueDate"] = *input.DueDate
	}
	if input.Paid != nil && !input.Paid.Equal(debt.Paid) {
		billable, err := debt.fetchBillableForUpdate(tx)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		delta := input.Paid.Sub(debt.Paid)
		if delta.IsPositive() {
			err = applyRepayment(billable, delta)
		} else {
			err = revertRepayment(billable, delta.Neg())
		}
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := saveBillableBalance(tx, billable); err != nil {
			tx.Rollback()
			return nil, err
		}
		updates["Paid"] = *input.Paid
	}

	if len(updates) > 0 {
		if err := tx.Model(&debt).Updates(updates).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return GetDebt(ctx, debt.ID)
}

func DeleteDebt(ctx context.Context, id int) (*Debt, error) {

	existing, err := utils.FetchModel[Debt](ctx, id)
	if err != nil {
		return nil, err
	}
	billableType, refId, err := existing.billableRef()
	if err != nil {
		return nil, err
	}

	lock := utils.ObtainLock(ctx, billableLockKey(billableType, refId), "debt", "DeleteDebt")
	defer utils.ReleaseLock(ctx, lock)

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()

	var debt Debt
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&debt, id).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	billable, err := debt.fetchBillableForUpdate(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := revertRepayment(billable, debt.Paid); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := saveBillableBalance(tx, billable); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Delete(&debt).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &debt, nil
}

func GetDebt(ctx context.Context, id int) (*Debt, error) {
	return utils.FetchModel[Debt](ctx, id, "Ampere", "Expense.ExpenseType", "GeneratorExpense")
}

// DebtFilter selects the debts booked against one billable record.
type DebtFilter struct {
	AmpereId           *int `form:"ampere_id" json:"ampere_id"`
	ExpenseId          *int `form:"expense_id" json:"expense_id"`
	GeneratorExpenseId *int `form:"generator_expense_id" json:"generator_expense_id"`
}

// DebtDetail is the flattened repayment row. Generator and Capacity are
// filled for ampere debts, Generator and Type for generator expense debts,
// and Type alone for expense debts.
type DebtDetail struct {
	ID        int              `json:"id"`
	CreatedBy string           `json:"created_by"`
	Generator string           `json:"generator,omitempty"`
	Capacity  *decimal.Decimal `json:"capacity,omitempty"`
	Type      string           `json:"type,omitempty"`
	Paid      decimal.Decimal  `json:"paid"`
	Remaining decimal.Decimal  `json:"remaining"`
	Status    BillableStatus   `json:"status"`
	DueDate   DateOnly         `json:"due_date"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (d *Debt) detail() *DebtDetail {
	detail := DebtDetail{
		ID:        d.ID,
		Paid:      d.Paid,
		DueDate:   d.DueDate,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.User != nil {
		detail.CreatedBy = d.User.Name
	}
	switch {
	case d.Ampere != nil:
		detail.Remaining = d.Ampere.Total.Sub(d.Ampere.Paid)
		detail.Status = d.Ampere.Status
		if d.Ampere.Generator != nil {
			detail.Generator = d.Ampere.Generator.Name
			capacity := d.Ampere.Generator.Ampere
			detail.Capacity = &capacity
		}
	case d.GeneratorExpense != nil:
		detail.Remaining = d.GeneratorExpense.Total.Sub(d.GeneratorExpense.Paid)
		detail.Status = d.GeneratorExpense.Status
		if d.GeneratorExpense.Generator != nil {
			detail.Generator = d.GeneratorExpense.Generator.Name
		}
		if d.GeneratorExpense.Type != nil {
			detail.Type = d.GeneratorExpense.Type.Name
		}
	case d.Expense != nil:
		detail.Remaining = d.Expense.Total.Sub(d.Expense.Paid)
		detail.Status = d.Expense.Status
		if d.Expense.ExpenseType != nil {
			detail.Type = d.Expense.ExpenseType.Name
		}
	}
	return &detail
}

// ListDebts returns the repayment history of one billable record.
func ListDebts(ctx context.Context, filter *DebtFilter) ([]*DebtDetail, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("User")

	switch {
	case filter.AmpereId != nil:
		dbCtx = dbCtx.Where("ampere_id = ?", *filter.AmpereId).
			Preload("Ampere.Generator")
	case filter.GeneratorExpenseId != nil:
		dbCtx = dbCtx.Where("geexpense_id = ?", *filter.GeneratorExpenseId).
			Preload("GeneratorExpense.Generator").
			Preload("GeneratorExpense.Type")
	case filter.ExpenseId != nil:
		dbCtx = dbCtx.Where("expense_id = ?", *filter.ExpenseId).
			Preload("Expense.ExpenseType")
	default:
		return nil, utils.ErrorRecordNotFound
	}

	var debts []*Debt
	if err := dbCtx.Find(&debts).Error; err != nil {
		return nil, err
	}
	if len(debts) == 0 {
		return nil, utils.ErrorRecordNotFound
	}

	details := make([]*DebtDetail, 0, len(debts))
	for _, debt := range debts {
		details = append(details, debt.detail())
	}
	return details, nil
}
