package models

import "time"

// LoanAgreement is the journal row persisted for every submitted loan
// agreement. The row records what was agreed and how the batch checkout
// went; asset state itself is never stored here.
type LoanAgreement struct {
	ID              uint      `gorm:"primaryKey;column:id"`
	AgreementID     string    `gorm:"column:agreement_id;type:varchar(64);uniqueIndex"`
	BorrowerName    string    `gorm:"column:borrower_name;type:varchar(128)"`
	BorrowerEmail   string    `gorm:"column:borrower_email;type:varchar(128)"`
	BorrowerUserID  int       `gorm:"column:borrower_user_id"`
	CoordinatorID   int       `gorm:"column:coordinator_id"`
	CoordinatorName string    `gorm:"column:coordinator_name;type:varchar(128)"`
	Location        string    `gorm:"column:location;type:varchar(128)"`
	StartDate       string    `gorm:"column:start_date;type:varchar(32)"`
	EndDate         string    `gorm:"column:end_date;type:varchar(32)"`
	EquipmentCount  int       `gorm:"column:equipment_count"`
	SuccessfulCount int       `gorm:"column:successful_count"`
	FailedCount     int       `gorm:"column:failed_count"`
	SummaryObject   string    `gorm:"column:summary_object;type:varchar(255)"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (LoanAgreement) TableName() string {
	return "loan_agreements"
}
