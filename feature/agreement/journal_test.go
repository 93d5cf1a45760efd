package agreement_test

import (
	"context"
	"testing"

	"assetbot/core/audit"
	"assetbot/core/inventory"
	invmocks "assetbot/core/inventory/mocks"
	"assetbot/feature/agreement"
	"assetbot/feature/custody"
	"assetbot/feature/people"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

// The journal row must land in the mysql table even when the archive
// store is absent; this pins the generated INSERT against the production
// dialector rather than the sqlite one used elsewhere.
func TestSubmitJournalsOverMySQL(t *testing.T) {
	db, dbmock := setupMockDB(t)

	dbmock.ExpectBegin()
	dbmock.ExpectExec("INSERT INTO `loan_agreements`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	dbmock.ExpectCommit()

	inv := new(invmocks.Client)
	inv.On("GetUser", mock.Anything, 9).Return(coordinator(true), nil).Once()
	expectCheckout(inv, "A1001", 42)

	log := zap.NewNop()
	rec := audit.NewRecorder(nil)
	svc := agreement.NewService(
		people.NewService(inv, log, rec),
		custody.NewService(inv, inventory.Config{ReadyStatusID: 2, DeployedStatusID: 4}, log, rec),
		db, nil, testBucket, log, rec,
	)

	in := validInput()
	in.Equipment = in.Equipment[:1]

	receipt, err := svc.Submit(context.Background(), actor, in)
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.Checkout.SuccessfulCount)
	// Only the archive warning remains; the journal write succeeded.
	assert.Len(t, receipt.Warnings, 1)

	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestHistoryQueryOverMySQL(t *testing.T) {
	db, dbmock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "agreement_id", "borrower_name", "equipment_count"}).
		AddRow(1, "LA-9-100", "Jon Smith", 2)
	dbmock.ExpectQuery("SELECT \\* FROM `loan_agreements` ORDER BY created_at desc LIMIT").
		WillReturnRows(rows)

	log := zap.NewNop()
	rec := audit.NewRecorder(nil)
	inv := new(invmocks.Client)
	svc := agreement.NewService(
		people.NewService(inv, log, rec),
		custody.NewService(inv, inventory.Config{}, log, rec),
		db, nil, testBucket, log, rec,
	)

	got, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LA-9-100", got[0].AgreementID)
	assert.Equal(t, "Jon Smith", got[0].BorrowerName)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}
