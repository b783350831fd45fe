package payments

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateCharge(ctx context.Context, charge *Charge) error
	GetChargesByAccountID(ctx context.Context, accountID int64, limit, offset int) ([]Charge, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCharge(ctx context.Context, charge *Charge) error {
	return r.db.WithContext(ctx).Create(charge).Error
}

func (r *repository) GetChargesByAccountID(ctx context.Context, accountID int64, limit, offset int) ([]Charge, int64, error) {
	var charges []Charge
	var total int64

	query := r.db.WithContext(ctx).Model(&Charge{}).Where("account_id = ?", accountID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&charges).Error
	if err != nil {
		return nil, 0, err
	}

	return charges, total, nil
}
