package services

import (
	"context"
	"strings"
	"testing"

	"github.com/homeboardhq/homeboard-backend/internal/clients/chat"
	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/repos"
	"gorm.io/gorm"
)

type dispatchFixture struct {
	dispatcher Dispatcher
	chatMock   *chat.MockClient
	gdb        *gorm.DB
	memberRepo repos.MemberRepo
	boardsRepo repos.BoardsRepo
}

func newDispatchFixture(t *testing.T) dispatchFixture {
	t.Helper()
	gdb := newTestDB(t)
	memberRepo, tokenRepo, jugRepo, _, _, boardsRepo := newTestRepos(t, gdb)
	seedJugs(t, jugRepo)
	log := logger.NewNop()

	chatMock := chat.NewMock()
	notifier := NewFamilyNotifier(log, chatMock, "family")
	tokens := NewTokenLedger(gdb, log, memberRepo, tokenRepo)
	water := NewWaterInventory(gdb, log, jugRepo, notifier)
	boards := NewBoardsService(gdb, log, boardsRepo)
	dispatcher := NewDispatcher(gdb, log, memberRepo, tokens, water, boards, notifier)

	return dispatchFixture{
		dispatcher: dispatcher,
		chatMock:   chatMock,
		gdb:        gdb,
		memberRepo: memberRepo,
		boardsRepo: boardsRepo,
	}
}

func (fx dispatchFixture) lastBody(t *testing.T) string {
	t.Helper()
	bodies := fx.chatMock.Bodies()
	if len(bodies) == 0 {
		t.Fatalf("no chat messages sent")
	}
	return bodies[len(bodies)-1]
}

func TestDispatcherApprovalReceiptSpendsTokens(t *testing.T) {
	fx := newDispatchFixture(t)
	ctx := context.Background()
	now := mustTime(t, "2026-03-02T14:00:00Z")
	seedMember(t, fx.memberRepo, "Amos", household.RoleChild, 3)

	err := fx.dispatcher.Handle(ctx, "lola", "OK — Amos: Soccer | 15:00–17:00 | 2 tokens | Park | today", now)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	body := fx.lastBody(t)
	if !strings.Contains(body, "Amos used 2 ride token(s)") || !strings.Contains(body, "1 left today") {
		t.Fatalf("approval reply = %q", body)
	}

	// The second two-token spend overdraws.
	err = fx.dispatcher.Handle(ctx, "lola", "OK — Amos: Soccer | 15:00–17:00 | 2 tokens | Park | today", now)
	if err != nil {
		t.Fatalf("Handle overdraw: %v", err)
	}
	body = fx.lastBody(t)
	if !strings.Contains(body, "Not enough ride tokens for Amos") {
		t.Fatalf("overdraw reply = %q", body)
	}
}

func TestDispatcherApprovalUnknownKid(t *testing.T) {
	fx := newDispatchFixture(t)
	now := mustTime(t, "2026-03-02T14:00:00Z")

	err := fx.dispatcher.Handle(context.Background(), "lola", "OK — Ghost: Soccer | 15:00–17:00 | 1 token | Park | today", now)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(fx.lastBody(t), "no family member named Ghost") {
		t.Fatalf("reply = %q", fx.lastBody(t))
	}
}

func TestDispatcherJugAndWater(t *testing.T) {
	fx := newDispatchFixture(t)
	ctx := context.Background()
	now := mustTime(t, "2026-03-02T14:00:00Z")

	if err := fx.dispatcher.Handle(ctx, "levi", "/jug 3 full", now); err != nil {
		t.Fatalf("Handle /jug: %v", err)
	}
	if !strings.Contains(fx.lastBody(t), "Jug 3 marked full") {
		t.Fatalf("jug reply = %q", fx.lastBody(t))
	}

	if err := fx.dispatcher.Handle(ctx, "levi", "/water", now); err != nil {
		t.Fatalf("Handle /water: %v", err)
	}
	body := fx.lastBody(t)
	if !strings.Contains(body, "1 full") || !strings.Contains(body, "5 empty") {
		t.Fatalf("water reply = %q", body)
	}

	// Bad jug number is a reply, not an error.
	if err := fx.dispatcher.Handle(ctx, "levi", "/jug 9 full", now); err != nil {
		t.Fatalf("Handle bad jug: %v", err)
	}
	if !strings.Contains(fx.lastBody(t), "Couldn't do that") {
		t.Fatalf("bad jug reply = %q", fx.lastBody(t))
	}
}

func TestDispatcherBoardsCommands(t *testing.T) {
	fx := newDispatchFixture(t)
	ctx := context.Background()
	now := mustTime(t, "2026-03-02T14:00:00Z")

	if err := fx.dispatcher.Handle(ctx, "lola", "/sprint revenue 500", now); err != nil {
		t.Fatalf("Handle /sprint: %v", err)
	}
	if !strings.Contains(fx.lastBody(t), "Sprint started: revenue") {
		t.Fatalf("sprint reply = %q", fx.lastBody(t))
	}

	if err := fx.dispatcher.Handle(ctx, "zoey", "/sold $25.50 friendship bracelets #market", now); err != nil {
		t.Fatalf("Handle /sold: %v", err)
	}
	body := fx.lastBody(t)
	if !strings.Contains(body, "$25.50") || !strings.Contains(body, "#market") {
		t.Fatalf("sale reply = %q", body)
	}

	if err := fx.dispatcher.Handle(ctx, "lola", "Greenlights Tuesday — Amos: soccer, library | Zoey: art club", now); err != nil {
		t.Fatalf("Handle greenlights: %v", err)
	}
	if !strings.Contains(fx.lastBody(t), "Greenlights for Tuesday posted (2 kids cleared)") {
		t.Fatalf("greenlights reply = %q", fx.lastBody(t))
	}
}

func TestDispatcherRideTicketPrompts(t *testing.T) {
	fx := newDispatchFixture(t)
	now := mustTime(t, "2026-03-02T14:00:00Z")

	text := "Amos • 14:45 • school gate • soccer practice + 17:00 • cleats, water • coach Dana 555-0101"
	if err := fx.dispatcher.Handle(context.Background(), "amos", text, now); err != nil {
		t.Fatalf("Handle ride ticket: %v", err)
	}
	body := fx.lastBody(t)
	if !strings.Contains(body, "Ride posted: Amos") || !strings.Contains(body, "OK —") {
		t.Fatalf("ride prompt = %q", body)
	}
}

func TestDispatcherDropsUnmatchedText(t *testing.T) {
	fx := newDispatchFixture(t)
	now := mustTime(t, "2026-03-02T14:00:00Z")

	for _, text := range []string{
		"what time is dinner?",
		"ok sounds good",
		"/unknown command",
	} {
		if err := fx.dispatcher.Handle(context.Background(), "levi", text, now); err != nil {
			t.Fatalf("Handle(%q): %v", text, err)
		}
	}
	if sent := len(fx.chatMock.Bodies()); sent != 0 {
		t.Fatalf("unmatched text produced %d replies, want 0: %v", sent, fx.chatMock.Bodies())
	}
}
