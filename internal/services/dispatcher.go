package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/command"
	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	apperrors "github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/repos"
)

const consumeRetries = 3

// Dispatcher takes one inbound chat message, parses it against the
// command grammar, routes the match to the owning service, and replies
// with the outcome. Text that matches nothing is dropped without a
// reply.
type Dispatcher interface {
	Handle(ctx context.Context, sender, text string, now time.Time) error
}

type dispatcher struct {
	db         *gorm.DB
	log        *logger.Logger
	memberRepo repos.MemberRepo
	tokens     TokenLedger
	water      WaterInventory
	boards     BoardsService
	notifier   FamilyNotifier
}

func NewDispatcher(
	db *gorm.DB,
	log *logger.Logger,
	memberRepo repos.MemberRepo,
	tokens TokenLedger,
	water WaterInventory,
	boards BoardsService,
	notifier FamilyNotifier,
) Dispatcher {
	return &dispatcher{
		db:         db,
		log:        log.With("service", "Dispatcher"),
		memberRepo: memberRepo,
		tokens:     tokens,
		water:      water,
		boards:     boards,
		notifier:   notifier,
	}
}

func (d *dispatcher) Handle(ctx context.Context, sender, text string, now time.Time) error {
	cmd, err := command.Parse(text)
	if err != nil {
		// A matched prefix with a malformed field. State untouched.
		d.log.Info("command rejected", "sender", sender, "error", err)
		d.notifier.CommandRejected(ctx, err.Error())
		return nil
	}
	if cmd == nil {
		d.log.Debug("unmatched chat text dropped", "sender", sender, "len", len(text))
		return nil
	}

	switch c := cmd.(type) {
	case command.RideTicket:
		d.notifier.RideApprovalPrompt(ctx, c)
		return nil
	case command.ApprovalReceipt:
		return d.handleApproval(ctx, c, now)
	case command.JugUpdate:
		return d.handleJugUpdate(ctx, c, now)
	case command.WaterQuery:
		status, err := d.water.Status(ctx)
		if err != nil {
			return err
		}
		d.notifier.WaterStatus(ctx, status)
		return nil
	case command.SprintStart:
		kind, ok := household.ParseSprintKind(c.Kind)
		if !ok {
			d.notifier.CommandRejected(ctx, "sprint type must be revenue or fulfill")
			return nil
		}
		sprint, err := d.boards.StartSprint(ctx, kind, c.Target, sender, now)
		if err != nil {
			return d.reject(ctx, err)
		}
		d.notifier.SprintStarted(ctx, sprint)
		return nil
	case command.SaleLogged:
		sale, total, err := d.boards.LogSale(ctx, c.AmountCents, c.Product, c.Channel, now)
		if err != nil {
			return d.reject(ctx, err)
		}
		d.notifier.SaleLogged(ctx, sale, total)
		return nil
	case command.Greenlights:
		entries := make([]household.GreenlightEntry, 0, len(c.Entries))
		for _, e := range c.Entries {
			entries = append(entries, household.GreenlightEntry{Child: e.Child, Activities: e.Activities})
		}
		post, err := d.boards.PostGreenlights(ctx, c.Day, entries, now)
		if err != nil {
			return d.reject(ctx, err)
		}
		d.notifier.GreenlightsPosted(ctx, post, len(entries))
		return nil
	default:
		d.log.Warn("parsed command with no route", "sender", sender)
		return nil
	}
}

// handleApproval spends tokens for the approved ride. The kid is looked
// up by first name; "today" resolves against the message clock.
func (d *dispatcher) handleApproval(ctx context.Context, receipt command.ApprovalReceipt, now time.Time) error {
	child, err := d.memberRepo.GetByFirstName(ctx, nil, receipt.Kid)
	if err != nil {
		if apperrors.IsNotFound(err) {
			d.notifier.CommandRejected(ctx, "no family member named "+receipt.Kid)
			return nil
		}
		return err
	}

	day := now
	if receipt.Date != "" && receipt.Date != "today" {
		if parsed, err := time.Parse(household.DateKey, receipt.Date); err == nil {
			day = parsed
		}
	}

	var balance *household.RideTokenBalance
	for attempt := 0; attempt < consumeRetries; attempt++ {
		balance, err = d.tokens.Consume(ctx, child.ID, day, receipt.Tokens)
		if err == nil || !apperrors.IsRetryable(err) {
			break
		}
		d.log.Warn("token consume retrying", "child_id", child.ID, "attempt", attempt+1, "error", err)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientTokens) {
			remaining, remErr := d.tokens.Remaining(ctx, child.ID, day)
			if remErr != nil {
				remaining = 0
			}
			d.notifier.TokensRejected(ctx, child, receipt.Tokens, remaining)
			return nil
		}
		return err
	}
	d.notifier.TokensConsumed(ctx, child, receipt.Tokens, balance.TokensRemaining())
	return nil
}

func (d *dispatcher) handleJugUpdate(ctx context.Context, c command.JugUpdate, now time.Time) error {
	status, ok := household.ParseJugStatus(c.Status)
	if !ok {
		d.notifier.CommandRejected(ctx, "jug status must be full, empty, or in_use")
		return nil
	}
	jug, err := d.water.UpdateJug(ctx, c.Jug, status, now)
	if err != nil {
		return d.reject(ctx, err)
	}
	d.notifier.JugUpdated(ctx, jug)
	return nil
}

// reject turns a validation failure into a chat reply and swallows it;
// anything else propagates to the webhook handler.
func (d *dispatcher) reject(ctx context.Context, err error) error {
	if errors.Is(err, apperrors.ErrValidation) || apperrors.IsNotFound(err) {
		d.notifier.CommandRejected(ctx, err.Error())
		return nil
	}
	return err
}
