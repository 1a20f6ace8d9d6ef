package app

import (
	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/repos"
)

type Repos struct {
	Member      repos.MemberRepo
	RideToken   repos.RideTokenRepo
	WaterJug    repos.WaterJugRepo
	FamilyEvent repos.FamilyEventRepo
	CalendarRef repos.CalendarRefRepo
	Boards      repos.BoardsRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Member:      repos.NewMemberRepo(db, log),
		RideToken:   repos.NewRideTokenRepo(db, log),
		WaterJug:    repos.NewWaterJugRepo(db, log),
		FamilyEvent: repos.NewFamilyEventRepo(db, log),
		CalendarRef: repos.NewCalendarRefRepo(db, log),
		Boards:      repos.NewBoardsRepo(db, log),
	}
}
