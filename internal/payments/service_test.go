package payments

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "payments.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Charge{}))
	return db
}

func TestChargeAccount(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewRepository(db)
	svc := NewService(repo, "gbp")

	require.NoError(t, svc.ChargeAccount(ctx, 42, 50))

	charges, total, err := svc.ChargesForAccount(ctx, 42, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, charges, 1)

	charge := charges[0]
	assert.Equal(t, int64(42), charge.AccountID)
	assert.Equal(t, float64(50), charge.Amount)
	assert.Equal(t, "GBP", charge.Currency)
	assert.Equal(t, StatusCompleted, charge.Status)
	assert.NotNil(t, charge.ProcessedAt)
	assert.Regexp(t, regexp.MustCompile(`^TXN_\d+_[0-9A-F]{8}$`), charge.TransactionID)

	var found Charge
	require.NoError(t, db.Where("transaction_id = ?", charge.TransactionID).First(&found).Error)
	assert.Equal(t, charge.ID, found.ID)
}

func TestChargeAccount_ZeroAmountIsRecorded(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewRepository(setupTestDB(t)), "")

	require.NoError(t, svc.ChargeAccount(ctx, 1, 0))

	charges, _, err := svc.ChargesForAccount(ctx, 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, charges, 1)
	assert.Equal(t, "GBP", charges[0].Currency)
}

func TestChargeAccount_InvalidInput(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewRepository(setupTestDB(t)), "GBP")

	assert.ErrorIs(t, svc.ChargeAccount(ctx, 1, -10), ErrInvalidAmount)
	assert.ErrorIs(t, svc.ChargeAccount(ctx, 1, math.NaN()), ErrInvalidAmount)
	assert.ErrorIs(t, svc.ChargeAccount(ctx, 1, math.Inf(1)), ErrInvalidAmount)
	assert.Error(t, svc.ChargeAccount(ctx, 0, 10))
}

func TestChargesForAccount_Pagination(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewRepository(db)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		charge := &Charge{
			AccountID:     5,
			Amount:        float64(10 * (i + 1)),
			Currency:      "GBP",
			Status:        StatusCompleted,
			TransactionID: "TXN_" + string(rune('A'+i)),
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.CreateCharge(ctx, charge))
	}
	require.NoError(t, repo.CreateCharge(ctx, &Charge{AccountID: 6, Amount: 1, TransactionID: "TXN_OTHER"}))

	svc := NewService(repo, "GBP")
	charges, total, err := svc.ChargesForAccount(ctx, 5, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, charges, 2)
	assert.Equal(t, float64(30), charges[0].Amount)
	assert.Equal(t, float64(20), charges[1].Amount)

	charges, _, err = svc.ChargesForAccount(ctx, 5, 2, 2)
	require.NoError(t, err)
	require.Len(t, charges, 1)
	assert.Equal(t, float64(10), charges[0].Amount)
}

type failingRepository struct {
	Repository
}

func (failingRepository) CreateCharge(ctx context.Context, charge *Charge) error {
	return errors.New("database is down")
}

func TestChargeAccount_RepositoryError(t *testing.T) {
	svc := NewService(failingRepository{}, "GBP")

	err := svc.ChargeAccount(context.Background(), 1, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record charge")
}

func TestRoundAmount(t *testing.T) {
	assert.Equal(t, 10.33, roundAmount(10.333))
	assert.Equal(t, 0.3, roundAmount(0.1+0.2))
}
