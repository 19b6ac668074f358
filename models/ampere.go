package models

import (
	"context"
	"time"

	"github.com/codezana/generator-system-api/config"
	"github.com/codezana/generator-system-api/utils"
	"github.com/shopspring/decimal"
)

// Ampere is a monthly ampere usage bill raised by a generator admin
// against their generator.
type Ampere struct {
	ID          int             `gorm:"primary_key" json:"id"`
	GeneratorId int             `gorm:"index;not null" json:"generator_id"`
	Date        DateOnly        `gorm:"not null" json:"date"`
	TotalHours  int             `gorm:"not null" json:"total_hours"`
	HourlyPrice decimal.Decimal `gorm:"type:decimal(20,0);not null" json:"hourly_price"`
	Final       decimal.Decimal `gorm:"type:decimal(20,0);not null" json:"final"`
	Total       decimal.Decimal `gorm:"type:decimal(20,0);not null" json:"total"`
	Paid        decimal.Decimal `gorm:"type:decimal(20,0);not null" json:"paid"`
	Status      BillableStatus  `gorm:"type:enum('paid','loan');not null" json:"status"`
	Generator   *Generator      `gorm:"foreignKey:GeneratorId" json:"generator,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Ampere) TableName() string { return "ampere" }

func (a *Ampere) BillableType() BillableType { return BillableTypeAmpere }
func (a *Ampere) GetTotal() decimal.Decimal { return a.Total }
func (a *Ampere) GetPaid() decimal.Decimal { return a.Paid }
func (a *Ampere) GetStatus() BillableStatus { return a.Status }
func (a *Ampere) SetPaid(paid decimal.Decimal) { a.Paid = paid }
func (a *Ampere) SetStatus(s BillableStatus) { a.Status = s }

type NewAmpere struct {
	Date        DateOnly        `json:"date" binding:"required"`
	TotalHours  int             `json:"total_hours" binding:"required"`
	HourlyPrice decimal.Decimal `json:"hourly_price" binding:"required"`
	Final       decimal.Decimal `json:"final" binding:"required"`
	Total       decimal.Decimal `json:"total" binding:"required"`
	Paid        decimal.Decimal `json:"paid"`
}

// AmpereDetail is the flattened listing row, joined with the generator.
type AmpereDetail struct {
	ID            int             `json:"id"`
	NameGenerator string          `json:"name_generator"`
	Ampere        decimal.Decimal `json:"ampere"`
	Date          DateOnly        `json:"date"`
	TotalHours    int             `json:"total_hours"`
	HourlyPrice   decimal.Decimal `json:"hourly_price"`
	Final         decimal.Decimal `json:"final"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	Status        BillableStatus  `json:"status"`
}

func (a *Ampere) detail() *AmpereDetail {
	detail := AmpereDetail{
		ID:          a.ID,
		Date:        a.Date,
		TotalHours:  a.TotalHours,
		HourlyPrice: a.HourlyPrice,
		Final:       a.Final,
		Total:       a.Total,
		Paid:        a.Paid,
		Status:      a.Status,
	}
	if a.Generator != nil {
		detail.NameGenerator = a.Generator.Name
		detail.Ampere = a.Generator.Ampere
	}
	return &detail
}

func CreateAmpere(ctx context.Context, input *NewAmpere) (*Ampere, error) {

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}

	if err := validateBalance(input.Paid, input.Total); err != nil {
		return nil, err
	}

	generator, err := generatorOfAdmin(ctx, userId)
	if err != nil {
		return nil, err
	}

	ampere := Ampere{
		GeneratorId: generator.ID,
		Date:        input.Date,
		TotalHours:  input.TotalHours,
		HourlyPrice: input.HourlyPrice,
		Final:       input.Final,
		Total:       input.Total,
		Paid:        input.Paid,
		Status:      statusForBalance(input.Paid, input.Total),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&ampere).Error; err != nil {
		return nil, err
	}
	ampere.Generator = generator
	return &ampere, nil
}

func GetAllAmperes(ctx context.Context) ([]*AmpereDetail, error) {

	generatorIds, err := visibleGeneratorIds(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var amperes []*Ampere
	err = db.WithContext(ctx).
		Where("generator_id IN ?", generatorIds).
		Preload("Generator").
		Find(&amperes).Error
	if err != nil {
		return nil, err
	}

	details := make([]*AmpereDetail, 0, len(amperes))
	for _, ampere := range amperes {
		details = append(details, ampere.detail())
	}
	return details, nil
}

func GetAmpere(ctx context.Context, id int) (*AmpereDetail, error) {

	generatorIds, err := visibleGeneratorIds(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var ampere Ampere
	err = db.WithContext(ctx).
		Where("generator_id IN ?", generatorIds).
		Preload("Generator").
		First(&ampere, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return ampere.detail(), nil
}

func UpdateAmpere(ctx context.Context, id int, input *NewAmpere) (*Ampere, error) {

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}

	if err := validateBalance(input.Paid, input.Total); err != nil {
		return nil, err
	}

	generator, err := generatorOfAdmin(ctx, userId)
	if err != nil {
		return nil, err
	}

	ampere, err := utils.FetchModel[Ampere](ctx, id)
	if err != nil {
		return nil, err
	}
	if ampere.GeneratorId != generator.ID {
		return nil, utils.ErrorRecordNotFound
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(ampere).Updates(map[string]interface{}{
		"Date":        input.Date,
		"TotalHours":  input.TotalHours,
		"HourlyPrice": input.HourlyPrice,
		"Final":       input.Final,
		"Total":       input.Total,
		"Paid":        input.Paid,
		"Status":      statusForBalance(input.Paid, input.Total),
	}).Error
	if err != nil {
		return nil, err
	}
	ampere.Generator = generator
	return ampere, nil
}

func DeleteAmpere(ctx context.Context, id int) (*Ampere, error) {

	ampere, err := utils.FetchModel[Ampere](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(ampere).Error; err != nil {
		return nil, err
	}
	return ampere, nil
}
