package models

import (
	"context"
	"time"

	"github.com/codezana/generator-system-api/config"
	"github.com/codezana/generator-system-api/utils"
	"github.com/shopspring/decimal"
)

// GeneratorExpense is a maintenance or running cost tied to a generator,
// categorised by an expense type.
type GeneratorExpense struct {
	ID          int             `gorm:"primary_key" json:"id"`
	GeneratorId int             `gorm:"index;not null" json:"generator_id"`
	TypeId      int             `gorm:"index;not null" json:"type_id"`
	Which       string          `gorm:"type:text" json:"which"`
	Total       decimal.Decimal `gorm:"type:decimal(20,0);not null" json:"total"`
	Paid        decimal.Decimal `gorm:"type:decimal(20,0);not null" json:"paid"`
	Date        DateOnly        `gorm:"not null" json:"date"`
	Status      BillableStatus  `gorm:"type:enum('paid','loan');not null" json:"status"`
	Generator   *Generator      `gorm:"foreignKey:GeneratorId" json:"generator,omitempty"`
	Type        *ExpenseType    `gorm:"foreignKey:TypeId" json:"type,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (g *GeneratorExpense) BillableType() BillableType { return BillableTypeGeneratorExpense }
func (g *GeneratorExpense) GetTotal() decimal.Decimal { return g.Total }
func (g *GeneratorExpense) GetPaid() decimal.Decimal { return g.Paid }
func (g *GeneratorExpense) GetStatus() BillableStatus { return g.Status }
func (g *GeneratorExpense) SetPaid(paid decimal.Decimal) { g.Paid = paid }
func (g *GeneratorExpense) SetStatus(s BillableStatus) { g.Status = s }

type NewGeneratorExpense struct {
	TypeId int             `json:"type_id" binding:"required"`
	Which  string          `json:"which"`
	Total  decimal.Decimal `json:"total" binding:"required"`
	Paid   decimal.Decimal `json:"paid"`
	Date   DateOnly        `json:"date" binding:"required"`
}

type UpdateGeneratorExpenseInput struct {
	TypeId *int             `json:"type_id"`
	Which  *string          `json:"which"`
	Total  *decimal.Decimal `json:"total"`
	Paid   *decimal.Decimal `json:"paid"`
	Date   *DateOnly        `json:"date"`
}

// GeneratorExpenseDetail is the flattened listing row, joined with the
// generator, its admin and manager, and the expense type.
type GeneratorExpenseDetail struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Boss    string          `json:"boss"`
	Manager string          `json:"manager"`
	Type    string          `json:"type"`
	Which   string          `json:"which"`
	Total   decimal.Decimal `json:"total"`
	Paid    decimal.Decimal `json:"paid"`
	Date    DateOnly        `json:"date"`
	Status  BillableStatus  `json:"status"`
}

func (g *GeneratorExpense) detail() *GeneratorExpenseDetail {
	detail := GeneratorExpenseDetail{
		ID:     g.ID,
		Which:  g.Which,
		Total:  g.Total,
		Paid:   g.Paid,
		Date:   g.Date,
		Status: g.Status,
	}
	if g.Type != nil {
		detail.Type = g.Type.Name
	}
	if g.Generator != nil {
		detail.Name = g.Generator.Name
		if g.Generator.Admin != nil {
			detail.Boss = g.Generator.Admin.Name
		}
		if g.Generator.Manager != nil {
			detail.Manager = g.Generator.Manager.Name
		}
	}
	return &detail
}

func CreateGeneratorExpense(ctx context.Context, input *NewGeneratorExpense) (*GeneratorExpense, error) {

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}

	if err := utils.ValidateResourceId[ExpenseType](ctx, input.TypeId); err != nil {
		return nil, err
	}
	if err := validateBalance(input.Paid, input.Total); err != nil {
		return nil, err
	}

	generator, err := generatorOfAdmin(ctx, userId)
	if err != nil {
		return nil, err
	}

	genExpense := GeneratorExpense{
		GeneratorId: generator.ID,
		TypeId:      input.TypeId,
		Which:       input.Which,
		Total:       input.Total,
		Paid:        input.Paid,
		Date:        input.Date,
		Status:      statusForBalance(input.Paid, input.Total),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&genExpense).Error; err != nil {
		return nil, err
	}
	genExpense.Generator = generator
	return &genExpense, nil
}

func GetAllGeneratorExpenses(ctx context.Context) ([]*GeneratorExpenseDetail, error) {

	generatorIds, err := visibleGeneratorIds(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var genExpenses []*GeneratorExpense
	err = db.WithContext(ctx).
		Where("generator_id IN ?", generatorIds).
		Preload("Type").
		Preload("Generator.Admin").
		Preload("Generator.Manager").
		Find(&genExpenses).Error
	if err != nil {
		return nil, err
	}

	details := make([]*GeneratorExpenseDetail, 0, len(genExpenses))
	for _, genExpense := range genExpenses {
		details = append(details, genExpense.detail())
	}
	return details, nil
}

func GetGeneratorExpense(ctx context.Context, id int) (*GeneratorExpenseDetail, error) {

	generatorIds, err := visibleGeneratorIds(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var genExpense GeneratorExpense
	err = db.WithContext(ctx).
		Where("generator_id IN ?", generatorIds).
		Preload("Type").
		Preload("Generator.Admin").
		Preload("Generator.Manager").
		First(&genExpense, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return genExpense.detail(), nil
}

func UpdateGeneratorExpense(ctx context.Context, id int, input *UpdateGeneratorExpenseInput) (*GeneratorExpense, error) {

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}

	generator, err := generatorOfAdmin(ctx, userId)
	if err != nil {
		return nil, err
	}

	genExpense, err := utils.FetchModel[GeneratorExpense](ctx, id)
	if err != nil {
		return nil, err
	}
	if genExpense.GeneratorId != generator.ID {
		return nil, utils.ErrorRecordNotFound
	}

	updates := map[string]interface{}{}
	if input.TypeId != nil {
		if err := utils.ValidateResourceId[ExpenseType](ctx, *input.TypeId); err != nil {
			return nil, err
		}
		updates["TypeId"] = *input.TypeId
	}
	if input.Which != nil {
		updates["Which"] = *input.Which
	}
	if input.Date != nil {
		updates["Date"] = *input.Date
	}

	total := utils.DereferencePtr(input.Total, genExpense.Total)
	paid := utils.DereferencePtr(input.Paid, genExpense.Paid)
	if input.Total != nil || input.Paid != nil {
		if err := validateBalance(paid, total); err != nil {
			return nil, err
		}
		updates["Total"] = total
		updates["Paid"] = paid
		updates["Status"] = statusForBalance(paid, total)
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(genExpense).Updates(updates).Error; err != nil {
		return nil, err
	}
	genExpense.Generator = generator
	return genExpense, nil
}

func DeleteGeneratorExpense(ctx context.Context, id int) (*GeneratorExpense, error) {

	genExpense, err := utils.FetchModel[GeneratorExpense](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(genExpense).Error; err != nil {
		return nil, err
	}
	return genExpense, nil
}
