package database

import (
	"boxoffice/internal/payments"

	"gorm.io/gorm"
)

const (
	chargeAmountConstraint = "chk_charges_amount"
	chargeAccountIndex     = "idx_charges_account_created"
)

// MigrateConstraints adds the ledger constraints AutoMigrate does not manage
func MigrateConstraints(db *gorm.DB) error {
	if !db.Migrator().HasConstraint(&payments.Charge{}, chargeAmountConstraint) {
		err := db.Exec(`
			ALTER TABLE charges
			ADD CONSTRAINT ` + chargeAmountConstraint + ` CHECK (amount >= 0);
		`).Error
		if err != nil {
			return err
		}
	}

	// Account history is read newest first
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS ` + chargeAccountIndex + `
		ON charges (account_id, created_at DESC);
	`).Error
}
