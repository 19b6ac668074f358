package models

import (
	"context"
	"time"

	"github.com/codezana/generator-system-api/config"
	"github.com/codezana/generator-system-api/utils"
)

// ExpenseType is a dynamic expense category (fuel, oil, filter, rent, ...).
type ExpenseType struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ExpenseType) TableName() string { return "types" }

type NewExpenseType struct {
	Name string `json:"name" binding:"required,max=100"`
}

func CreateExpenseType(ctx context.Context, input *NewExpenseType) (*ExpenseType, error) {
	if err := utils.ValidateUnique[ExpenseType](ctx, "name", input.Name, 0); err != nil {
		return nil, err
	}

	expenseType := ExpenseType{Name: input.Name}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&expenseType).Error; err != nil {
		return nil, err
	}
	return &expenseType, nil
}

func GetAllExpenseTypes(ctx context.Context) ([]*ExpenseType, error) {
	return utils.FetchAllModels[ExpenseType](ctx)
}

func GetExpenseType(ctx context.Context, id int) (*ExpenseType, error) {
	return utils.FetchModel[ExpenseType](ctx, id)
}

func UpdateExpenseType(ctx context.Context, id int, input *NewExpenseType) (*ExpenseType, error) {
	expenseType, err := utils.FetchModel[ExpenseType](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[ExpenseType](ctx, "name", input.Name, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(expenseType).Update("name", input.Name).Error; err != nil {
		return nil, err
	}
	return expenseType, nil
}

func DeleteExpenseType(ctx context.Context, id int) (*ExpenseType, error) {
	expenseType, err := utils.FetchModel[ExpenseType](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(expenseType).Error; err != nil {
		return nil, err
	}
	return expenseType, nil
}
