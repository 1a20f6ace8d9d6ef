package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/db"
	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/observability"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	cancel       context.CancelFunc
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "homeboard-backend",
		Environment: os.Getenv("APP_ENV"),
		Version:     os.Getenv("APP_VERSION"),
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	reposet := wireRepos(theDB, log)
	if err := reposet.WaterJug.Seed(context.Background(), nil); err != nil {
		log.Sync()
		return nil, fmt.Errorf("seed water jugs: %w", err)
	}
	if err := seedMembers(context.Background(), log, reposet, cfg.Household); err != nil {
		log.Sync()
		return nil, fmt.Errorf("seed family members: %w", err)
	}

	clientset := wireClients(context.Background(), log)
	serviceset := wireServices(theDB, log, cfg, reposet, clientset)
	handlerset := wireHandlers(log, reposet, serviceset)
	middleware := wireMiddleware(log, cfg)
	router := wireRouter(log, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		otelShutdown: otelShutdown,
	}, nil
}

// seedMembers inserts the family roster from the settings file. Existing
// members are left alone so restarts never clobber token allotments.
func seedMembers(ctx context.Context, log *logger.Logger, reposet Repos, settings HouseholdSettings) error {
	for _, seed := range settings.Members {
		if seed.FirstName == "" {
			continue
		}
		role := household.MemberRole(strings.ToLower(seed.Role))
		if role != household.RoleParent && role != household.RoleChild {
			return fmt.Errorf("member %q: unknown role %q", seed.FirstName, seed.Role)
		}
		if _, err := reposet.Member.GetByFirstName(ctx, nil, seed.FirstName); err == nil {
			continue
		} else if !errors.IsNotFound(err) {
			return err
		}
		tokens := 0
		if role == household.RoleChild {
			tokens = settings.DefaultTokensPerDay
			if seed.TokensPerDay != nil {
				tokens = *seed.TokensPerDay
			}
		}
		member := &household.FamilyMember{
			FirstName:    seed.FirstName,
			Role:         role,
			TokensPerDay: tokens,
		}
		if err := reposet.Member.Create(ctx, nil, []*household.FamilyMember{member}); err != nil {
			return err
		}
		log.Info("Seeded family member", "first_name", seed.FirstName, "role", role)
	}
	return nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Services.Sweeper != nil {
		a.Services.Sweeper.Start(ctx)
	}
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(a.Cfg.Addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
