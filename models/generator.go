package models

import (
	"context"
	"errors"
	"time"

	"github.com/codezana/generator-system-api/config"
	"github.com/codezana/generator-system-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Generator struct {
	ID        int             `gorm:"primary_key" json:"id"`
	Name      string          `gorm:"size:100;not null" json:"name" binding:"required"`
	AdminId   int             `gorm:"index;not null" json:"admin_id" binding:"required"`
	ManagerId int             `gorm:"index;not null" json:"manager_id"`
	Location  string          `gorm:"size:100;not null" json:"location" binding:"required"`
	Ampere    decimal.Decimal `gorm:"type:decimal(20,0);not null" json:"ampere"`
	Admin     *User           `gorm:"foreignKey:AdminId" json:"admin,omitempty"`
	Manager   *User           `gorm:"foreignKey:ManagerId" json:"manager,omitempty"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewGenerator struct {
	Name     string          `json:"name" binding:"required,max=100"`
	AdminId  int             `json:"admin_id" binding:"required"`
	Location string          `json:"location" binding:"required,max=100"`
	Ampere   decimal.Decimal `json:"ampere" binding:"required"`
}

// scopeGeneratorsByRole narrows a generators query to what the caller may see.
func scopeGeneratorsByRole(dbCtx *gorm.DB, role UserRole, userId int) *gorm.DB {
	switch role {
	case UserRoleSuperAdmin:
		return dbCtx
	case UserRoleManager:
		return dbCtx.Where("manager_id = ?", userId)
	default:
		return dbCtx.Where("admin_id = ?", userId)
	}
}

// visibleGeneratorIds returns the ids of every generator the caller may see.
func visibleGeneratorIds(ctx context.Context) ([]int, error) {
	userId, _ := utils.GetUserIdFromContext(ctx)
	role, _ := utils.GetUserRoleFromContext(ctx)

	db := config.GetDB()
	var ids []int
	dbCtx := scopeGeneratorsByRole(db.WithContext(ctx).Model(&Generator{}), UserRole(role), userId)
	if err := dbCtx.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// generatorOfAdmin returns the single generator assigned to the admin.
func generatorOfAdmin(ctx context.Context, adminId int) (*Generator, error) {
	db := config.GetDB()
	var generator Generator
	err := db.WithContext(ctx).Where("admin_id = ?", adminId).First(&generator).Error
	if err != nil {
		return nil, errors.New("no generator is assigned to this admin")
	}
	return &generator, nil
}

func (input *NewGenerator) validate(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[User](ctx, input.AdminId); err != nil {
		return errors.New("admin not found")
	}
	if input.Ampere.IsNegative() || input.Ampere.GreaterThan(decimal.NewFromInt(100000)) {
		return errors.New("ampere capacity must be between 0 and 100000")
	}
	// one generator per admin
	count, err := utils.ResourceCountWhere[Generator](ctx, "admin_id = ? AND NOT id = ?", input.AdminId, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("this admin already has a generator")
	}
	return nil
}

func CreateGenerator(ctx context.Context, input *NewGenerator) (*Generator, error) {

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}
	role, _ := utils.GetUserRoleFromContext(ctx)
	if UserRole(role) != UserRoleManager {
		return nil, errors.New("only managers can create generators")
	}

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	generator := Generator{
		Name:      input.Name,
		AdminId:   input.AdminId,
		ManagerId: userId,
		Location:  input.Location,
		Ampere:    input.Ampere,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&generator).Error; err != nil {
		return nil, err
	}
	return &generator, nil
}

func GetAllGenerators(ctx context.Context) ([]*Generator, error) {

	userId, _ := utils.GetUserIdFromContext(ctx)
	role, _ := utils.GetUserRoleFromContext(ctx)

	db := config.GetDB()
	dbCtx := scopeGeneratorsByRole(db.WithContext(ctx).Model(&Generator{}), UserRole(role), userId).
		Preload("Admin").Preload("Manager")

	var results []*Generator
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	for _, g := range results {
		if g.Admin != nil {
			g.Admin.PrepareGive()
		}
		if g.Manager != nil {
			g.Manager.PrepareGive()
		}
	}
	return results, nil
}

func GetGenerator(ctx context.Context, id int) (*Generator, error) {

	userId, _ := utils.GetUserIdFromContext(ctx)
	role, _ := utils.GetUserRoleFromContext(ctx)

	db := config.GetDB()
	dbCtx := scopeGeneratorsByRole(db.WithContext(ctx), UserRole(role), userId).
		Preload("Admin").Preload("Manager")

	var result Generator
	if err := dbCtx.First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if result.Admin != nil {
		result.Admin.PrepareGive()
	}
	if result.Manager != nil {
		result.Manager.PrepareGive()
	}
	return &result, nil
}

func UpdateGenerator(ctx context.Context, id int, input *NewGenerator) (*Generator, error) {

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}
	role, _ := utils.GetUserRoleFromContext(ctx)
	if UserRole(role) != UserRoleManager {
		return nil, errors.New("only managers can update generators")
	}

	generator, err := utils.FetchModel[Generator](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(generator).Updates(map[string]interface{}{
		"Name":      input.Name,
		"AdminId":   input.AdminId,
		"ManagerId": userId,
		"Location":  input.Location,
		"Ampere":    input.Ampere,
	}).Error
	if err != nil {
		return nil, err
	}
	return generator, nil
}

func DeleteGenerator(ctx context.Context, id int) (*Generator, error) {

	role, _ := utils.GetUserRoleFromContext(ctx)
	if UserRole(role) != UserRoleManager {
		return nil, errors.New("only managers can delete generators")
	}

	generator, err := utils.FetchModel[Generator](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(generator).Error; err != nil {
		return nil, err
	}
	return generator, nil
}
