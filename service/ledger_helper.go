package service

import (
	"context"
	"fmt"

	"creditsvc/events"
	"creditsvc/models"
)

// RecordLedgerEntry appends a ledger entry and publishes the matching
// events on the unit of work's transactional bus. This is the single
// entry point for all balance changes in the system.
func RecordLedgerEntry(ctx context.Context, uow UnitOfWork, entry *models.LedgerEntry, balanceBefore, balanceAfter int64) error {
	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	// Flushed only after the transaction commits
	uow.EventBus().Publish(events.BalanceChangeEvent{
		AnonID:     entry.AnonID,
		OldBalance: balanceBefore,
		NewBalance: balanceAfter,
		EntryType:  entry.Type,
		Amount:     entry.Amount,
	})

	if entry.Type == models.EntryTypeDailyBonus {
		uow.EventBus().Publish(events.BonusClaimedEvent{
			AnonID:    entry.AnonID,
			Amount:    entry.Amount,
			ClaimedAt: entry.CreatedAt,
		})
	}

	return nil
}
