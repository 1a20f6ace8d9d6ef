package app

import (
	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/jobs"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/services"
)

type Services struct {
	Notifier   services.FamilyNotifier
	Tokens     services.TokenLedger
	Water      services.WaterInventory
	Swaps      services.SwapCoordinator
	CalSync    services.CalendarSync
	Boards     services.BoardsService
	Dispatcher services.Dispatcher

	Sweeper *jobs.Sweeper
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	notifier := services.NewFamilyNotifier(log, clients.Chat, cfg.ChatChannel)
	tokens := services.NewTokenLedger(db, log, reposet.Member, reposet.RideToken)
	water := services.NewWaterInventory(db, log, reposet.WaterJug, notifier)
	calSync := services.NewCalendarSync(db, log, clients.Calendar, reposet.FamilyEvent, reposet.CalendarRef, reposet.Member)
	swaps := services.NewSwapCoordinator(db, log, reposet.FamilyEvent, reposet.Member, calSync, notifier)
	boards := services.NewBoardsService(db, log, reposet.Boards)
	dispatcher := services.NewDispatcher(db, log, reposet.Member, tokens, water, boards, notifier)

	sweeper := jobs.NewSweeper(db, log, swaps, calSync, clients.Locker, cfg.Household.SweepInterval.Std(), cfg.Household.PullWindowDays)

	return Services{
		Notifier:   notifier,
		Tokens:     tokens,
		Water:      water,
		Swaps:      swaps,
		CalSync:    calSync,
		Boards:     boards,
		Dispatcher: dispatcher,
		Sweeper:    sweeper,
	}
}
