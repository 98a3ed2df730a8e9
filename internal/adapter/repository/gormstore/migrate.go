package gormstore

import (
	"savings-group-backend/internal/domain/group"
	"savings-group-backend/internal/domain/ledger"
	"savings-group-backend/internal/domain/loan"
	"savings-group-backend/internal/domain/payment"

	"gorm.io/gorm"
)

// Models lists every table owned by this service, in dependency order.
func Models() []any {
	return []any{
		&group.Group{},
		&loan.LoanRequest{},
		&loan.Vote{},
		&payment.LoanPayment{},
		&ledger.Entry{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
