package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"creditsvc/events"
	"creditsvc/models"
	"creditsvc/repository"
	"creditsvc/repository/testutil"
	"creditsvc/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(testDB.DB, eventBus)
	validator := service.NewBonusValidator(7)
	creditService := service.NewCreditService(uowFactory, validator, 20)
	profileService := service.NewProfileService(uowFactory)
	ledgerRepo := repository.NewLedgerRepository(testDB.DB)

	const anonID = "anon-lifecycle"

	_, err := profileService.GetOrCreate(ctx, anonID)
	require.NoError(t, err)

	t.Run("initialize with starting balance", func(t *testing.T) {
		credits, err := creditService.EnsureInitialized(ctx, anonID, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(100), credits.Balance)

		// Second call is a no-op
		credits, err = creditService.EnsureInitialized(ctx, anonID, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(100), credits.Balance)

		summary, err := creditService.GetBalance(ctx, anonID)
		require.NoError(t, err)
		require.Len(t, summary.Ledger, 1)
		assert.Equal(t, models.EntryTypeInitial, summary.Ledger[0].Type)
	})

	t.Run("spend debits balance", func(t *testing.T) {
		summary, err := creditService.SpendCredits(ctx, anonID, 30, "avatar upgrade")
		require.NoError(t, err)
		assert.Equal(t, int64(70), summary.Balance)

		assert.Equal(t, models.EntryTypeSpend, summary.Ledger[0].Type)
		assert.Equal(t, int64(-30), summary.Ledger[0].Amount)
	})

	t.Run("daily bonus claim and same-day rejection", func(t *testing.T) {
		summary, err := creditService.ClaimDailyBonus(ctx, anonID, 50)
		require.NoError(t, err)
		assert.Equal(t, int64(120), summary.Balance)

		_, err = creditService.ClaimDailyBonus(ctx, anonID, 50)
		var rateLimitedErr *service.RateLimitedError
		require.ErrorAs(t, err, &rateLimitedErr)
		assert.Greater(t, rateLimitedErr.RetryAfter.Seconds(), 0.0)

		// Balance unchanged by the rejected claim
		current, err := creditService.GetBalance(ctx, anonID)
		require.NoError(t, err)
		assert.Equal(t, int64(120), current.Balance)
	})

	t.Run("ledger guard holds without validator state", func(t *testing.T) {
		// A fresh validator simulates a process restart: the in-memory
		// record is gone but the ledger entry still blocks the claim
		freshService := service.NewCreditService(uowFactory, service.NewBonusValidator(7), 20)

		_, err := freshService.ClaimDailyBonus(ctx, anonID, 50)
		var rateLimitedErr *service.RateLimitedError
		require.ErrorAs(t, err, &rateLimitedErr)
	})

	t.Run("adjust can drive balance negative", func(t *testing.T) {
		summary, err := creditService.AdjustCredits(ctx, anonID, -200, "fraud reversal")
		require.NoError(t, err)
		assert.Equal(t, int64(-80), summary.Balance)
	})

	t.Run("balance equals ledger sum", func(t *testing.T) {
		summary, err := creditService.GetBalance(ctx, anonID)
		require.NoError(t, err)

		sum, err := ledgerRepo.SumAmounts(ctx, anonID)
		require.NoError(t, err)
		assert.Equal(t, summary.Balance, sum)
	})
}

func TestSpendCredits_ConcurrentSpends_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(testDB.DB, eventBus)
	creditService := service.NewCreditService(uowFactory, service.NewBonusValidator(7), 20)
	ledgerRepo := repository.NewLedgerRepository(testDB.DB)

	userRepo := repository.NewUserRepository(testDB.DB)
	const anonID = "anon-concurrent"
	_, err := userRepo.Create(ctx, anonID)
	require.NoError(t, err)
	_, err = creditService.EnsureInitialized(ctx, anonID, 100)
	require.NoError(t, err)

	// Two concurrent 60-credit spends against a balance of 100: the row
	// lock must let exactly one through
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, results[idx] = creditService.SpendCredits(ctx, anonID, 60, "concurrent purchase")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var insufficientErr *service.InsufficientBalanceError
		require.True(t, errors.As(err, &insufficientErr), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	summary, err := creditService.GetBalance(ctx, anonID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), summary.Balance)

	sum, err := ledgerRepo.SumAmounts(ctx, anonID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), sum)
}
