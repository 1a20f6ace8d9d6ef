package services

import (
	"context"
	"fmt"

	"github.com/homeboardhq/homeboard-backend/internal/clients/chat"
	"github.com/homeboardhq/homeboard-backend/internal/command"
	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

// FamilyNotifier pushes outcome messages to the family chat channel.
// Sends happen after state is committed; a failed send is logged and
// never rolls anything back.
type FamilyNotifier interface {
	SwapRequested(ctx context.Context, ev *household.FamilyEvent, candidate *household.FamilyMember)
	SwapConfirmed(ctx context.Context, ev *household.FamilyEvent, newCaptain *household.FamilyMember)
	SwapMoved(ctx context.Context, ev *household.FamilyEvent)
	TokensConsumed(ctx context.Context, child *household.FamilyMember, spent, remaining int)
	TokensRejected(ctx context.Context, child *household.FamilyMember, requested, remaining int)
	LowWater(ctx context.Context, status household.WaterStatus)
	WaterStatus(ctx context.Context, status household.WaterStatus)
	RideApprovalPrompt(ctx context.Context, ticket command.RideTicket)
	JugUpdated(ctx context.Context, jug *household.WaterJug)
	SprintStarted(ctx context.Context, sprint *household.Sprint)
	SaleLogged(ctx context.Context, sale *household.SaleLog, channelTotalCents int64)
	GreenlightsPosted(ctx context.Context, post *household.GreenlightPost, entryCount int)
	CommandRejected(ctx context.Context, reason string)
	Plain(ctx context.Context, body string)
}

type familyNotifier struct {
	log     *logger.Logger
	chat    chat.Client
	channel string
}

func NewFamilyNotifier(log *logger.Logger, chatClient chat.Client, channel string) FamilyNotifier {
	return &familyNotifier{
		log:     log.With("service", "FamilyNotifier"),
		chat:    chatClient,
		channel: channel,
	}
}

func (n *familyNotifier) send(ctx context.Context, body string) {
	if n == nil || n.chat == nil || body == "" {
		return
	}
	if err := n.chat.Send(ctx, n.channel, body); err != nil {
		n.log.Warn("chat send failed", "error", err, "body", body)
	}
}

func (n *familyNotifier) SwapRequested(ctx context.Context, ev *household.FamilyEvent, candidate *household.FamilyMember) {
	if ev == nil || candidate == nil {
		return
	}
	n.send(ctx, fmt.Sprintf("Swap requested for %q (%s). %s has %d minutes to confirm.",
		ev.Title, ev.StartTime.Format("Mon 15:04"), candidate.FirstName,
		int(household.SwapConfirmWindow.Minutes())))
}

func (n *familyNotifier) SwapConfirmed(ctx context.Context, ev *household.FamilyEvent, newCaptain *household.FamilyMember) {
	if ev == nil || newCaptain == nil {
		return
	}
	n.send(ctx, fmt.Sprintf("Swap confirmed: %s is now captain for %q (%s).",
		newCaptain.FirstName, ev.Title, ev.StartTime.Format("Mon 15:04")))
}

func (n *familyNotifier) SwapMoved(ctx context.Context, ev *household.FamilyEvent) {
	if ev == nil {
		return
	}
	n.send(ctx, fmt.Sprintf("No confirmation in time. %q moved to %s.",
		ev.Title, ev.StartTime.Format("Mon Jan 2 15:04")))
}

func (n *familyNotifier) TokensConsumed(ctx context.Context, child *household.FamilyMember, spent, remaining int) {
	if child == nil {
		return
	}
	n.send(ctx, fmt.Sprintf("%s used %d ride token(s). %d left today.", child.FirstName, spent, remaining))
}

func (n *familyNotifier) TokensRejected(ctx context.Context, child *household.FamilyMember, requested, remaining int) {
	if child == nil {
		return
	}
	n.send(ctx, fmt.Sprintf("Not enough ride tokens for %s: asked for %d, only %d left today.",
		child.FirstName, requested, remaining))
}

func (n *familyNotifier) LowWater(ctx context.Context, status household.WaterStatus) {
	n.send(ctx, fmt.Sprintf("Water is low: %d full jug(s) left, about %.1f days of supply. Time to order.",
		status.FullCount, status.EstimatedDaysLeft))
}

func (n *familyNotifier) WaterStatus(ctx context.Context, status household.WaterStatus) {
	n.send(ctx, fmt.Sprintf("Water: %d full / %d in use / %d empty. Roughly %.1f days left.",
		status.FullCount, status.InUseCount, status.EmptyCount, status.EstimatedDaysLeft))
}

func (n *familyNotifier) RideApprovalPrompt(ctx context.Context, ticket command.RideTicket) {
	line := fmt.Sprintf("Ride posted: %s, ready %s at %s for %s.", ticket.Who, ticket.ReadyTime, ticket.Location, ticket.Event)
	if ticket.EndTime != "" {
		line += fmt.Sprintf(" Ends %s.", ticket.EndTime)
	}
	line += fmt.Sprintf(" Reply \"OK — %s: %s | ...\" to approve and spend tokens.", ticket.Who, ticket.Event)
	n.send(ctx, line)
}

func (n *familyNotifier) JugUpdated(ctx context.Context, jug *household.WaterJug) {
	if jug == nil {
		return
	}
	n.send(ctx, fmt.Sprintf("Jug %d marked %s.", jug.JugNumber, jug.Status))
}

func (n *familyNotifier) SprintStarted(ctx context.Context, sprint *household.Sprint) {
	if sprint == nil {
		return
	}
	n.send(ctx, fmt.Sprintf("Sprint started: %s, target %.0f. Go.", sprint.Kind, sprint.Target))
}

func (n *familyNotifier) SaleLogged(ctx context.Context, sale *household.SaleLog, channelTotalCents int64) {
	if sale == nil {
		return
	}
	n.send(ctx, fmt.Sprintf("Sale logged: $%.2f %s #%s. Channel total $%.2f.",
		float64(sale.AmountCents)/100, sale.Product, sale.Channel, float64(channelTotalCents)/100))
}

func (n *familyNotifier) GreenlightsPosted(ctx context.Context, post *household.GreenlightPost, entryCount int) {
	if post == nil {
		return
	}
	n.send(ctx, fmt.Sprintf("Greenlights for %s posted (%d kids cleared).", post.Day, entryCount))
}

func (n *familyNotifier) CommandRejected(ctx context.Context, reason string) {
	n.send(ctx, fmt.Sprintf("Couldn't do that: %s", reason))
}

func (n *familyNotifier) Plain(ctx context.Context, body string) {
	n.send(ctx, body)
}
