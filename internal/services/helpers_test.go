package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/homeboardhq/homeboard-backend/internal/db"
	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/repos"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func newTestRepos(t *testing.T, gdb *gorm.DB) (repos.MemberRepo, repos.RideTokenRepo, repos.WaterJugRepo, repos.FamilyEventRepo, repos.CalendarRefRepo, repos.BoardsRepo) {
	t.Helper()
	log := logger.NewNop()
	return repos.NewMemberRepo(gdb, log),
		repos.NewRideTokenRepo(gdb, log),
		repos.NewWaterJugRepo(gdb, log),
		repos.NewFamilyEventRepo(gdb, log),
		repos.NewCalendarRefRepo(gdb, log),
		repos.NewBoardsRepo(gdb, log)
}

func seedMember(t *testing.T, memberRepo repos.MemberRepo, firstName string, role household.MemberRole, tokensPerDay int) *household.FamilyMember {
	t.Helper()
	m := &household.FamilyMember{
		FirstName:    firstName,
		Role:         role,
		TokensPerDay: tokensPerDay,
	}
	if err := memberRepo.Create(context.Background(), nil, []*household.FamilyMember{m}); err != nil {
		t.Fatalf("seed member %s: %v", firstName, err)
	}
	return m
}

func seedEvent(t *testing.T, eventRepo repos.FamilyEventRepo, ev *household.FamilyEvent) *household.FamilyEvent {
	t.Helper()
	if ev.Status == "" {
		ev.Status = household.EventScheduled
	}
	if err := eventRepo.Create(context.Background(), nil, []*household.FamilyEvent{ev}); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return ev
}

func seedJugs(t *testing.T, jugRepo repos.WaterJugRepo) {
	t.Helper()
	if err := jugRepo.Seed(context.Background(), nil); err != nil {
		t.Fatalf("seed jugs: %v", err)
	}
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed
}
