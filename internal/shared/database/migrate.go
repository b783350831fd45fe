package database

import (
	"boxoffice/internal/payments"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&payments.Charge{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
