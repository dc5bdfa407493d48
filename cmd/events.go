package cmd

import (
	"context"

	"creditsvc/events"

	log "github.com/sirupsen/logrus"
)

// registerEventLogging wires observability subscribers onto the bus
func registerEventLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		change, ok := event.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"anonId":     change.AnonID,
			"oldBalance": change.OldBalance,
			"newBalance": change.NewBalance,
			"entryType":  change.EntryType,
			"amount":     change.Amount,
		}).Info("Balance changed")
	})

	bus.Subscribe(events.EventTypeBonusClaimed, func(ctx context.Context, event events.Event) {
		claim, ok := event.(events.BonusClaimedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"anonId": claim.AnonID,
			"amount": claim.Amount,
		}).Info("Daily bonus claimed")
	})

	bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, event events.Event) {
		created, ok := event.(events.UserCreatedEvent)
		if !ok {
			return
		}
		log.WithField("anonId", created.AnonID).Info("Profile created")
	})
}
