package testutil

import (
	"time"

	"creditsvc/models"
)

// CreateTestUser creates a test profile with default values
func CreateTestUser(anonID string) *models.User {
	now := time.Now()
	return &models.User{
		AnonID:    anonID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestCredits creates a test credits record with a specific balance
func CreateTestCredits(anonID string, balance int64) *models.Credits {
	return &models.Credits{
		AnonID:    anonID,
		Balance:   balance,
		UpdatedAt: time.Now(),
	}
}

// CreateTestLedgerEntry creates a test ledger entry
func CreateTestLedgerEntry(anonID string, amount int64, entryType models.EntryType) *models.LedgerEntry {
	return &models.LedgerEntry{
		AnonID:    anonID,
		Amount:    amount,
		Type:      entryType,
		CreatedAt: time.Now(),
	}
}

// CreateTestLedgerEntryWithReason creates a test ledger entry with a reason
func CreateTestLedgerEntryWithReason(anonID string, amount int64, entryType models.EntryType, reason string) *models.LedgerEntry {
	entry := CreateTestLedgerEntry(anonID, amount, entryType)
	entry.Reason = &reason
	return entry
}
