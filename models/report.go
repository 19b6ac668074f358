package models

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/codezana/generator-system-api/config"
	"github.com/codezana/generator-system-api/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// IdName is a minimal row for report filter dropdowns.
type IdName struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ReportFilters lists the generators and users the caller may report on.
type ReportFilters struct {
	Generators []IdName `json:"generators"`
	Users      []IdName `json:"users"`
}

// GeneratorNamesByRole returns the generator and user choices for the
// caller's role. Super admins see all generators and every manager,
// managers see their own generators and themselves, admins see only
// their assigned generator.
func GeneratorNamesByRole(ctx context.Context) (*ReportFilters, error) {

	userId, _ := utils.GetUserIdFromContext(ctx)
	role, _ := utils.GetUserRoleFromContext(ctx)

	db := config.GetDB()
	var generators []IdName
	err := scopeGeneratorsByRole(db.WithContext(ctx).Model(&Generator{}), UserRole(role), userId).
		Select("id", "name").Find(&generators).Error
	if err != nil {
		return nil, err
	}

	filters := ReportFilters{Generators: generators, Users: []IdName{}}
	switch UserRole(role) {
	case UserRoleSuperAdmin:
		err = db.WithContext(ctx).Model(&User{}).
			Where("role = ?", UserRoleManager).
			Select("id", "name").Find(&filters.Users).Error
		if err != nil {
			return nil, err
		}
	case UserRoleManager:
		userName, _ := utils.GetUserNameFromContext(ctx)
		filters.Users = []IdName{{ID: userId, Name: userName}}
	}
	return &filters, nil
}

// UsageReport aggregates one billable category over the selected
// generators or users. Repayment covers every debt booked against the
// matched records.
type UsageReport struct {
	Total     decimal.Decimal `json:"total"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Debt      decimal.Decimal `json:"debt"`
	Repayment decimal.Decimal `json:"repayment"`
}

func usageReport(balance *balanceRow, repayment decimal.Decimal) *UsageReport {
	return &UsageReport{
		Total:     balance.Total,
		TotalPaid: balance.Paid,
		Debt:      balance.Total.Sub(balance.Paid),
		Repayment: repayment,
	}
}

func monthFilter(dbCtx *gorm.DB, month *time.Time) *gorm.DB {
	if month == nil {
		return dbCtx
	}
	start, end := utils.GetMonthRangeOf(*month)
	return dbCtx.Where("date BETWEEN ? AND ?", start, end)
}

// AmpereUsageReport aggregates the ampere bills of the given generators,
// optionally narrowed to the month containing the given date.
func AmpereUsageReport(ctx context.Context, generatorIds []int, month *time.Time) (*UsageReport, error) {
	if len(generatorIds) == 0 {
		return nil, errors.New("generator id is required")
	}

	db := config.GetDB()
	matched := monthFilter(db.WithContext(ctx).Model(&Ampere{}).
		Where("generator_id IN ?", generatorIds), month)

	balance, err := sumBalance(matched)
	if err != nil {
		return nil, err
	}
	matchedIds := monthFilter(db.WithContext(ctx).Model(&Ampere{}).Select("id").
		Where("generator_id IN ?", generatorIds), month)
	repayment, err := sumRepayment(db.WithContext(ctx).Model(&Debt{}).
		Where("ampere_id IN (?)", matchedIds))
	if err != nil {
		return nil, err
	}
	return usageReport(balance, repayment), nil
}

// GeneratorExpenseUsageReport aggregates the generator expenses of the
// given generators, optionally narrowed to the month containing the
// given date.
func GeneratorExpenseUsageReport(ctx context.Context, generatorIds []int, month *time.Time) (*UsageReport, error) {
	if len(generatorIds) == 0 {
		return nil, errors.New("generator id is required")
	}

	db := config.GetDB()
	matched := monthFilter(db.WithContext(ctx).Model(&GeneratorExpense{}).
		Where("generator_id IN ?", generatorIds), month)

	balance, err := sumBalance(matched)
	if err != nil {
		return nil, err
	}
	matchedIds := monthFilter(db.WithContext(ctx).Model(&GeneratorExpense{}).Select("id").
		Where("generator_id IN ?", generatorIds), month)
	repayment, err := sumRepayment(db.WithContext(ctx).Model(&Debt{}).
		Where("geexpense_id IN (?)", matchedIds))
	if err != nil {
		return nil, err
	}
	return usageReport(balance, repayment), nil
}

// ExpenseUsageReport aggregates the general expenses made by the given
// users, optionally narrowed to the month containing the given date.
func ExpenseUsageReport(ctx context.Context, userIds []int, month *time.Time) (*UsageReport, error) {
	if len(userIds) == 0 {
		return nil, errors.New("user id is required")
	}

	db := config.GetDB()
	matched := monthFilter(db.WithContext(ctx).Model(&Expense{}).
		Where("made IN ?", userIds), month)

	balance, err := sumBalance(matched)
	if err != nil {
		return nil, err
	}
	matchedIds := monthFilter(db.WithContext(ctx).Model(&Expense{}).Select("id").
		Where("made IN ?", userIds), month)
	repayment, err := sumRepayment(db.WithContext(ctx).Model(&Debt{}).
		Where("expense_id IN (?)", matchedIds))
	if err != nil {
		return nil, err
	}
	return usageReport(balance, repayment), nil
}

// ReportSection is one labelled row in an exported report workbook.
type ReportSection struct {
	Title  string
	Report *UsageReport
}

// WriteReportExcel renders the sections as an xlsx workbook straight onto
// the response writer.
func WriteReportExcel(w http.ResponseWriter, filename string, sections []ReportSection) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := "Sheet1"
	headers := []string{"Section", "Total", "Total Paid", "Debt", "Repayment"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for i, section := range sections {
		row := fmt.Sprint(i + 2)
		file.SetCellValue(sheet, "A"+row, section.Title)
		file.SetCellValue(sheet, "B"+row, section.Report.Total.String())
		file.SetCellValue(sheet, "C"+row, section.Report.TotalPaid.String())
		file.SetCellValue(sheet, "D"+row, section.Report.Debt.String())
		file.SetCellValue(sheet, "E"+row, section.Report.Repayment.String())
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return file.Write(w)
}

// ExportMonthlyReport writes an xlsx workbook with the three usage
// reports scoped to the caller, for the month containing the given date
// or for all time when month is nil.
func ExportMonthlyReport(ctx context.Context, month *time.Time, w http.ResponseWriter) error {

	userId, _ := utils.GetUserIdFromContext(ctx)

	generatorIds, err := visibleGeneratorIds(ctx)
	if err != nil {
		return err
	}
	if len(generatorIds) == 0 {
		return ErrNoGenerators
	}

	ampereReport, err := AmpereUsageReport(ctx, generatorIds, month)
	if err != nil {
		return err
	}
	genExpenseReport, err := GeneratorExpenseUsageReport(ctx, generatorIds, month)
	if err != nil {
		return err
	}
	expenseReport, err := ExpenseUsageReport(ctx, []int{userId}, month)
	if err != nil {
		return err
	}

	filename := "usage-report.xlsx"
	if month != nil {
		filename = fmt.Sprintf("usage-report-%s.xlsx", month.Format("2006-01"))
	}
	return WriteReportExcel(w, filename, []ReportSection{
		{Title: "Ampere", Report: ampereReport},
		{Title: "Generator Expenses", Report: genExpenseReport},
		{Title: "Expenses", Report: expenseReport},
	})
}
