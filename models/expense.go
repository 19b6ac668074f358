package models

import (
	"context"
	"time"

	"github.com/codezana/generator-system-api/config"
	"github.com/codezana/generator-system-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is a general operating purchase recorded by the user who made it.
type Expense struct {
	ID            int             `gorm:"primary_key" json:"id"`
	ExpenseTypeId int             `gorm:"index;not null" json:"expense_type_id"`
	Made          int             `gorm:"index;not null" json:"made"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(20,0);not null" json:"price"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	Total         decimal.Decimal `gorm:"type:decimal(20,0);not null" json:"total"`
	Paid          decimal.Decimal `gorm:"type:decimal(20,0);not null" json:"paid"`
	InvoiceNumber string          `gorm:"size:100" json:"invoice_number"`
	Date          DateOnly        `gorm:"not null" json:"date"`
	Status        BillableStatus  `gorm:"type:enum('paid','loan');not null" json:"status"`
	ExpenseType   *ExpenseType    `gorm:"foreignKey:ExpenseTypeId" json:"expense_type,omitempty"`
	Purchaser     *User           `gorm:"foreignKey:Made" json:"purchaser,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Expense) BillableType() BillableType { return BillableTypeExpense }
func (e *Expense) GetTotal() decimal.Decimal { return e.Total }
func (e *Expense) GetPaid() decimal.Decimal { return e.Paid }
func (e *Expense) GetStatus() BillableStatus { return e.Status }
func (e *Expense) SetPaid(paid decimal.Decimal) { e.Paid = paid }
func (e *Expense) SetStatus(s BillableStatus) { e.Status = s }

type NewExpense struct {
	ExpenseTypeId int             `json:"expense_type_id" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	Quantity      int             `json:"quantity" binding:"required"`
	Total         decimal.Decimal `json:"total" binding:"required"`
	Paid          decimal.Decimal `json:"paid"`
	InvoiceNumber string          `json:"invoice_number"`
	Date          DateOnly        `json:"date" binding:"required"`
}

type UpdateExpenseInput struct {
	ExpenseTypeId *int             `json:"expense_type_id"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Quantity      *int             `json:"quantity"`
	Total         *decimal.Decimal `json:"total"`
	Paid          *decimal.Decimal `json:"paid"`
	InvoiceNumber *string          `json:"invoice_number"`
	Date          *DateOnly        `json:"date"`
}

// ExpenseDetail is the flattened listing row, joined with the expense type
// and the purchaser.
type ExpenseDetail struct {
	ID            int             `json:"id"`
	Type          string          `json:"type"`
	Description   string          `json:"description"`
	Made          string          `json:"made"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	InvoiceNumber string          `json:"invoice_number"`
	Date          DateOnly        `json:"date"`
	Status        BillableStatus  `json:"status"`
}

func (e *Expense) detail() *ExpenseDetail {
	detail := ExpenseDetail{
		ID:            e.ID,
		Description:   e.Description,
		Price:         e.Price,
		Quantity:      e.Quantity,
		Total:         e.Total,
		Paid:          e.Paid,
		InvoiceNumber: e.InvoiceNumber,
		Date:          e.Date,
		Status:        e.Status,
	}
	if e.ExpenseType != nil {
		detail.Type = e.ExpenseType.Name
	}
	if e.Purchaser != nil {
		detail.Made = e.Purchaser.Name
	}
	return &detail
}

// scopeExpensesByRole narrows an expenses query to what the caller may see.
// Everyone except the super admin only sees their own purchases.
func scopeExpensesByRole(dbCtx *gorm.DB, role UserRole, userId int) *gorm.DB {
	if role == UserRoleSuperAdmin {
		return dbCtx
	}
	return dbCtx.Where("made = ?", userId)
}

func CreateExpense(ctx context.Context, input *NewExpense) (*Expense, error) {

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}

	if err := utils.ValidateResourceId[ExpenseType](ctx, input.ExpenseTypeId); err != nil {
		return nil, err
	}
	if err := validateBalance(input.Paid, input.Total); err != nil {
		return nil, err
	}

	expense := Expense{
		ExpenseTypeId: input.ExpenseTypeId,
		Made:          userId,
		Description:   input.Description,
		Price:         input.Price,
		Quantity:      input.Quantity,
		Total:         input.Total,
		Paid:          input.Paid,
		InvoiceNumber: input.InvoiceNumber,
		Date:          input.Date,
		Status:        statusForBalance(input.Paid, input.Total),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func GetAllExpenses(ctx context.Context) ([]*ExpenseDetail, error) {

	userId, _ := utils.GetUserIdFromContext(ctx)
	role, _ := utils.GetUserRoleFromContext(ctx)

	db := config.GetDB()
	dbCtx := scopeExpensesByRole(db.WithContext(ctx).Model(&Expense{}), UserRole(role), userId).
		Preload("ExpenseType").Preload("Purchaser")

	var expenses []*Expense
	if err := dbCtx.Find(&expenses).Error; err != nil {
		return nil, err
	}

	details := make([]*ExpenseDetail, 0, len(expenses))
	for _, expense := range expenses {
		details = append(details, expense.detail())
	}
	return details, nil
}

func GetExpense(ctx context.Context, id int) (*ExpenseDetail, error) {

	userId, _ := utils.GetUserIdFromContext(ctx)
	role, _ := utils.GetUserRoleFromContext(ctx)

	db := config.GetDB()
	dbCtx := scopeExpensesByRole(db.WithContext(ctx), UserRole(role), userId).
		Preload("ExpenseType").Preload("Purchaser")

	var expense Expense
	if err := dbCtx.First(&expense, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return expense.detail(), nil
}

func UpdateExpense(ctx context.Context, id int, input *UpdateExpenseInput) (*Expense, error) {

	expense, err := utils.FetchModel[Expense](ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.ExpenseTypeId != nil {
		if err := utils.ValidateResourceId[ExpenseType](ctx, *input.ExpenseTypeId); err != nil {
			return nil, err
		}
		updates["ExpenseTypeId"] = *input.ExpenseTypeId
	}
	if input.Description != nil {
		updates["Description"] = *input.Description
	}
	if input.Price != nil {
		updates["Price"] = *input.Price
	}
	if input.Quantity != nil {
		updates["Quantity"] = *input.Quantity
	}
	if input.InvoiceNumber != nil {
		updates["InvoiceNumber"] = *input.InvoiceNumber
	}
	if input.Date != nil {
		updates["Date"] = *input.Date
	}

	total := utils.DereferencePtr(input.Total, expense.Total)
	paid := utils.DereferencePtr(input.Paid, expense.Paid)
	if input.Total != nil || input.Paid != nil {
		if err := validateBalance(paid, total); err != nil {
			return nil, err
		}
		updates["Total"] = total
		updates["Paid"] = paid
		updates["Status"] = statusForBalance(paid, total)
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(expense).Updates(updates).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

func DeleteExpense(ctx context.Context, id int) (*Expense, error) {

	expense, err := utils.FetchModel[Expense](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}
