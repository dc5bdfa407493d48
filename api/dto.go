package api

import (
	"time"

	"creditsvc/models"
)

type updateProfileRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

type linkUserRequest struct {
	UserID string `json:"userId"`
}

type initCreditsRequest struct {
	InitialAmount *int64 `json:"initialAmount"`
}

type amountRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

type userResponse struct {
	AnonID    string  `json:"anonId"`
	UserID    *string `json:"userId"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

type ledgerEntryResponse struct {
	ID     string  `json:"id"`
	Amount int64   `json:"amount"`
	Type   string  `json:"type"`
	Reason *string `json:"reason,omitempty"`
	TS     string  `json:"ts"`
}

type creditsResponse struct {
	Balance int64                 `json:"balance"`
	Ledger  []ledgerEntryResponse `json:"ledger"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		AnonID:    user.AnonID,
		UserID:    user.UserID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func newCreditsResponse(summary *models.CreditSummary) creditsResponse {
	ledger := make([]ledgerEntryResponse, 0, len(summary.Ledger))
	for _, entry := range summary.Ledger {
		ledger = append(ledger, ledgerEntryResponse{
			ID:     entry.ID,
			Amount: entry.Amount,
			Type:   string(entry.Type),
			Reason: entry.Reason,
			TS:     entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return creditsResponse{
		Balance: summary.Balance,
		Ledger:  ledger,
	}
}
