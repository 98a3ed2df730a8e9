package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanPayment is an append-only record of one repayment.
type LoanPayment struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	PaymentID        string          `gorm:"column:payment_id;type:char(32);not null;uniqueIndex:ux_loan_payments_payment_id" json:"payment_id"`
	LoanID           string          `gorm:"column:loan_id;size:32;not null;index" json:"loan_id"`
	GroupID          string          `gorm:"column:group_id;size:32;not null;index" json:"group_id"`
	PayerID          string          `gorm:"column:payer_id;size:64;not null" json:"payer_id"`
	Amount           decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	PaidAt           time.Time       `gorm:"column:paid_at;not null" json:"paid_at"`
	Note             string          `gorm:"column:note;type:text" json:"note"`
	InstallmentIndex int             `gorm:"column:installment_index;not null" json:"installment_index"`
	InterestPortion  decimal.Decimal `gorm:"column:interest_portion;type:decimal(18,2);not null" json:"interest_portion"`
	CapitalPortion   decimal.Decimal `gorm:"column:capital_portion;type:decimal(18,2);not null" json:"capital_portion"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (LoanPayment) TableName() string { return "loan_payments" }
