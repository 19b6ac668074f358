package models

import (
	"context"
	"time"

	"github.com/codezana/generator-system-api/config"
	"github.com/codezana/generator-system-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillableSummary aggregates one billable category over a period.
// Debt is the outstanding balance, Repayment the debts booked in the period.
type BillableSummary struct {
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
	Debt      decimal.Decimal `json:"debt"`
	Repayment decimal.Decimal `json:"repayment"`
}

// DashboardSummary is the current month overview per billable category,
// scoped to the generators and expenses the caller may see.
type DashboardSummary struct {
	GeneratorExpenses *BillableSummary `json:"generator_expenses"`
	Ampere            *BillableSummary `json:"ampere"`
	Expenses          *BillableSummary `json:"expenses"`
}

type balanceRow struct {
	Total decimal.Decimal
	Paid  decimal.Decimal
}

func sumBalance(dbCtx *gorm.DB) (*balanceRow, error) {
	var row balanceRow
	err := dbCtx.Select("COALESCE(SUM(total), 0) AS total, COALESCE(SUM(paid), 0) AS paid").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func sumRepayment(dbCtx *gorm.DB) (decimal.Decimal, error) {
	var repayment decimal.Decimal
	err := dbCtx.Select("COALESCE(SUM(paid), 0)").Scan(&repayment).Error
	if err != nil {
		return decimal.Zero, err
	}
	return repayment, nil
}

func summarize(balance *balanceRow, repayment decimal.Decimal) *BillableSummary {
	return &BillableSummary{
		Total:     balance.Total,
		Paid:      balance.Paid,
		Debt:      balance.Total.Sub(balance.Paid),
		Repayment: repayment,
	}
}

// GetDashboard returns the current month summaries for generator expenses,
// ampere bills and general expenses.
func GetDashboard(ctx context.Context) (*DashboardSummary, error) {

	userId, _ := utils.GetUserIdFromContext(ctx)
	role, _ := utils.GetUserRoleFromContext(ctx)

	generatorIds, err := visibleGeneratorIds(ctx)
	if err != nil {
		return nil, err
	}
	if len(generatorIds) == 0 {
		return nil, ErrNoGenerators
	}

	start, end := utils.GetThisMonthRange()
	db := config.GetDB()

	genExpenseSummary, err := summarizeGeneratorExpenses(ctx, db, generatorIds, start, end)
	if err != nil {
		return nil, err
	}
	ampereSummary, err := summarizeAmperes(ctx, db, generatorIds, start, end)
	if err != nil {
		return nil, err
	}
	expenseSummary, err := summarizeExpenses(ctx, db, UserRole(role), userId, start, end)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		GeneratorExpenses: genExpenseSummary,
		Ampere:            ampereSummary,
		Expenses:          expenseSummary,
	}, nil
}

func summarizeGeneratorExpenses(ctx context.Context, db *gorm.DB, generatorIds []int, start, end time.Time) (*BillableSummary, error) {
	balance, err := sumBalance(db.WithContext(ctx).Model(&GeneratorExpense{}).
		Where("generator_id IN ?", generatorIds).
		Where("created_at BETWEEN ? AND ?", start, end))
	if err != nil {
		return nil, err
	}

	inRange := db.WithContext(ctx).Model(&GeneratorExpense{}).Select("id").
		Where("generator_id IN ?", generatorIds).
		Where("created_at BETWEEN ? AND ?", start, end)
	repayment, err := sumRepayment(db.WithContext(ctx).Model(&Debt{}).
		Where("geexpense_id IN (?)", inRange).
		Where("created_at BETWEEN ? AND ?", start, end))
	if err != nil {
		return nil, err
	}
	return summarize(balance, repayment), nil
}

func summarizeAmperes(ctx context.Context, db *gorm.DB, generatorIds []int, start, end time.Time) (*BillableSummary, error) {
	balance, err := sumBalance(db.WithContext(ctx).Model(&Ampere{}).
		Where("generator_id IN ?", generatorIds).
		Where("created_at BETWEEN ? AND ?", start, end))
	if err != nil {
		return nil, err
	}

	inRange := db.WithContext(ctx).Model(&Ampere{}).Select("id").
		Where("generator_id IN ?", generatorIds).
		Where("created_at BETWEEN ? AND ?", start, end)
	repayment, err := sumRepayment(db.WithContext(ctx).Model(&Debt{}).
		Where("ampere_id IN (?)", inRange).
		Where("created_at BETWEEN ? AND ?", start, end))
	if err != nil {
		return nil, err
	}
	return summarize(balance, repayment), nil
}

func summarizeExpenses(ctx context.Context, db *gorm.DB, role UserRole, userId int, start, end time.Time) (*BillableSummary, error) {
	balance, err := sumBalance(scopeExpensesByRole(db.WithContext(ctx).Model(&Expense{}), role, userId).
		Where("created_at BETWEEN ? AND ?", start, end))
	if err != nil {
		return nil, err
	}

	inRange := scopeExpensesByRole(db.WithContext(ctx).Model(&Expense{}).Select("id"), role, userId).
		Where("created_at BETWEEN ? AND ?", start, end)
	repayment, err := sumRepayment(db.WithContext(ctx).Model(&Debt{}).
		Where("expense_id IN (?)", inRange).
		Where("created_at BETWEEN ? AND ?", start, end))
	if err != nil {
		return nil, err
	}
	return summarize(balance, repayment), nil
}

// GetRepayment lists the debts booked in the current month against the
// billables the caller may see.
func GetRepayment(ctx context.Context) ([]*Debt, error) {

	role, _ := utils.GetUserRoleFromContext(ctx)

	generatorIds, err := visibleGeneratorIds(ctx)
	if err != nil {
		return nil, err
	}
	if len(generatorIds) == 0 {
		return nil, ErrNoGenerators
	}

	start, end := utils.GetThisMonthRange()
	db := config.GetDB()

	dbCtx := db.WithContext(ctx).Model(&Debt{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Preload("User").
		Preload("Ampere").
		Preload("Expense").
		Preload("GeneratorExpense")

	if UserRole(role) != UserRoleSuperAdmin {
		ampereIds := db.WithContext(ctx).Model(&Ampere{}).Select("id").
			Where("generator_id IN ?", generatorIds)
		genExpenseIds := db.WithContext(ctx).Model(&GeneratorExpense{}).Select("id").
			Where("generator_id IN ?", generatorIds)
		dbCtx = dbCtx.Where("ampere_id IN (?) OR geexpense_id IN (?)", ampereIds, genExpenseIds)
	}

	var debts []*Debt
	if err := dbCtx.Find(&debts).Error; err != nil {
		return nil, err
	}
	for _, debt := range debts {
		if debt.User != nil {
			debt.User.PrepareGive()
		}
	}
	return debts, nil
}
