package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/clients/gcal"
	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	apperrors "github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/repos"
)

const pullFanout = 4

// CalendarSync mirrors family events to the shared Google calendar.
// Pushes are best-effort: a failed push marks the event pending and the
// sweep loop retries it.
type CalendarSync interface {
	PushEvent(ctx context.Context, ev *household.FamilyEvent) error
	PullUpdates(ctx context.Context, from, to time.Time) (int, error)
	RetryPendingPushes(ctx context.Context) (int, error)
}

type calendarSync struct {
	db         *gorm.DB
	log        *logger.Logger
	cal        gcal.Client
	eventRepo  repos.FamilyEventRepo
	refRepo    repos.CalendarRefRepo
	memberRepo repos.MemberRepo
}

func NewCalendarSync(
	db *gorm.DB,
	log *logger.Logger,
	cal gcal.Client,
	eventRepo repos.FamilyEventRepo,
	refRepo repos.CalendarRefRepo,
	memberRepo repos.MemberRepo,
) CalendarSync {
	return &calendarSync{
		db:         db,
		log:        log.With("service", "CalendarSync"),
		cal:        cal,
		eventRepo:  eventRepo,
		refRepo:    refRepo,
		memberRepo: memberRepo,
	}
}

func (s *calendarSync) firstName(ctx context.Context, id uuid.UUID) string {
	member, err := s.memberRepo.GetByID(ctx, nil, id)
	if err != nil {
		s.log.Warn("member lookup for calendar title failed", "member_id", id, "error", err)
		return "?"
	}
	return member.FirstName
}

// renderTitle builds the calendar-facing title for an event, including
// the swap marker while a swap is awaiting confirmation.
func (s *calendarSync) renderTitle(ctx context.Context, ev *household.FamilyEvent) string {
	child := s.firstName(ctx, ev.ChildID)
	captain := s.firstName(ctx, ev.CaptainID)
	backup := ""
	if ev.BackupID != nil {
		backup = s.firstName(ctx, *ev.BackupID)
	}
	return household.FormatEventTitle(child, ev.Title, captain, backup, ev.Pharmacy, ev.SwapFlag)
}

func (s *calendarSync) PushEvent(ctx context.Context, ev *household.FamilyEvent) error {
	remote := gcal.Event{
		Title:    s.renderTitle(ctx, ev),
		Start:    ev.StartTime,
		End:      ev.EndTime,
		Location: ev.Location,
	}

	ref, err := s.refRepo.GetByEventID(ctx, nil, ev.ID)
	switch {
	case err == nil && ref.GoogleEventID != "":
		err = s.cal.Update(ctx, ref.GoogleEventID, remote)
	case apperrors.IsNotFound(err) || (err == nil && ref.GoogleEventID == ""):
		var googleID string
		googleID, err = s.cal.Create(ctx, remote)
		if err == nil {
			err = s.refRepo.Upsert(ctx, nil, &household.CalendarEventRef{
				EventID:       ev.ID,
				GoogleEventID: googleID,
			})
		}
	default:
		return err
	}

	if err != nil {
		s.log.Warn("calendar push failed, queueing retry", "event_id", ev.ID, "error", err)
		// The ref may not exist yet when the very first push fails.
		if ref == nil {
			if upErr := s.refRepo.Upsert(ctx, nil, &household.CalendarEventRef{EventID: ev.ID}); upErr != nil {
				s.log.Error("could not create ref for push retry", "event_id", ev.ID, "error", upErr)
			}
		}
		if markErr := s.refRepo.MarkPendingPush(ctx, nil, ev.ID); markErr != nil {
			s.log.Error("could not mark event for push retry", "event_id", ev.ID, "error", markErr)
		}
		return fmt.Errorf("calendar push for event %s: %w", ev.ID, errors.Join(apperrors.ErrExternalService, err))
	}
	return s.refRepo.MarkPushed(ctx, nil, ev.ID, time.Now().UTC())
}

// PullUpdates overwrites local title, times, and location from the
// remote calendar for every linked event in the window. Remote wins.
func (s *calendarSync) PullUpdates(ctx context.Context, from, to time.Time) (int, error) {
	remoteEvents, err := s.cal.List(ctx, from, to)
	if err != nil {
		return 0, err
	}
	refs, err := s.refRepo.ListAll(ctx, nil)
	if err != nil {
		return 0, err
	}
	byGoogleID := make(map[string]uuid.UUID, len(refs))
	for _, ref := range refs {
		if ref.GoogleEventID != "" {
			byGoogleID[ref.GoogleEventID] = ref.EventID
		}
	}

	var (
		group, groupCtx = errgroup.WithContext(ctx)
		updated         = make(chan struct{}, len(remoteEvents))
	)
	group.SetLimit(pullFanout)
	for _, remote := range remoteEvents {
		eventID, ok := byGoogleID[remote.ID]
		if !ok {
			continue
		}
		remote := remote
		group.Go(func() error {
			title := stripTitleDecorations(remote.Title)
			if err := s.eventRepo.OverwriteFromRemote(groupCtx, nil, eventID, title, remote.Start, remote.End, remote.Location); err != nil {
				return err
			}
			updated <- struct{}{}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return 0, err
	}
	close(updated)
	return len(updated), nil
}

// stripTitleDecorations recovers the bare activity title from the
// rendered calendar form ("Child — Title | Captain: ..."). Titles that
// were edited into a different shape pass through untouched.
func stripTitleDecorations(rendered string) string {
	rest := rendered
	if _, after, found := strings.Cut(rest, " — "); found {
		rest = after
	}
	if before, _, found := strings.Cut(rest, " | "); found {
		rest = before
	}
	return strings.TrimSpace(rest)
}

func (s *calendarSync) RetryPendingPushes(ctx context.Context) (int, error) {
	refs, err := s.refRepo.ListPendingPush(ctx, nil)
	if err != nil {
		return 0, err
	}
	pushed := 0
	for _, ref := range refs {
		ev, err := s.eventRepo.GetByID(ctx, nil, ref.EventID)
		if err != nil {
			s.log.Warn("pending push refers to missing event", "event_id", ref.EventID, "error", err)
			continue
		}
		if err := s.PushEvent(ctx, ev); err != nil {
			continue
		}
		pushed++
	}
	return pushed, nil
}
