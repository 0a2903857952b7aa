package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/pingpong-club/internal/domain/division"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/platform/logging"
)

// Announcement is a published division update.
type Announcement struct {
	Title string         `json:"title"`
	Kind  division.Kind  `json:"kind"`
	HTML  string         `json:"html"`
	Rows  []division.Row `json:"rows"`
}

// Notifier publishes announcements outside the service.
type Notifier interface {
	Announce(ctx context.Context, a Announcement) error
}

type nopNotifier struct{}

func (nopNotifier) Announce(context.Context, Announcement) error { return nil }

type DivisionService struct {
	store    Store
	notifier Notifier
	location *time.Location
	logger   *logging.Logger
	recorder Recorder
	now      func() time.Time
}

func NewDivisionService(store Store, notifier Notifier, location *time.Location, logger *logging.Logger, recorder Recorder) *DivisionService {
	if logger == nil {
		logger = logging.Default()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if location == nil {
		location = time.UTC
	}
	return &DivisionService{
		store:    store,
		notifier: notifier,
		location: location,
		logger:   logger,
		recorder: recorderOrNop(recorder),
		now:      time.Now,
	}
}

// Update re-buckets every valid player with enough matches and stores the
// resulting log.
func (s *DivisionService) Update(ctx context.Context) (division.UpdateLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DivisionService.Update")
	defer span.End()

	var log division.UpdateLog
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		players, err := repos.Players().List(ctx, player.ListFilter{ValidOnly: true, MinMatches: division.MinMatches})
		if err != nil {
			return fmt.Errorf("list players for division update: %w", err)
		}
		if len(players) == 0 {
			return fmt.Errorf("%w: no player has %d approved matches", ErrInvalidInput, division.MinMatches)
		}
		rows := division.Assign(players)
		if err := applyRows(ctx, repos, rows); err != nil {
			return err
		}
		log, err = s.writeLog(ctx, repos, division.KindUpdate, rows)
		return err
	})
	if err != nil {
		return division.UpdateLog{}, err
	}

	s.recorder.Record("division_update", len(log.Rows))
	s.logger.InfoContext(ctx, "division update stored", "log_id", log.ID, "rows", len(log.Rows))
	s.announce(ctx, log)
	return log, nil
}

// RevertLatest restores the ranks from before the newest update.
func (s *DivisionService) RevertLatest(ctx context.Context) (division.UpdateLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DivisionService.RevertLatest")
	defer span.End()

	var log division.UpdateLog
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos Repositories) error {
		latest, ok, err := repos.UpdateLogs().Latest(ctx, division.KindUpdate)
		if err != nil {
			return fmt.Errorf("get latest division update: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: no division update to revert", ErrNotFound)
		}
		rows := division.Reverse(latest.Rows)
		if err := applyRows(ctx, repos, rows); err != nil {
			return err
		}
		log, err = s.writeLog(ctx, repos, division.KindRevert, rows)
		return err
	})
	if err != nil {
		return division.UpdateLog{}, err
	}

	s.logger.InfoContext(ctx, "division update reverted", "log_id", log.ID, "rows", len(log.Rows))
	s.announce(ctx, log)
	return log, nil
}

func (s *DivisionService) List(ctx context.Context, limit int) ([]division.UpdateLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DivisionService.List")
	defer span.End()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, err := s.store.UpdateLogs().List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list division logs: %w", err)
	}
	return items, nil
}

func (s *DivisionService) Get(ctx context.Context, id int64) (division.UpdateLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DivisionService.Get")
	defer span.End()

	log, ok, err := s.store.UpdateLogs().Get(ctx, id)
	if err != nil {
		return division.UpdateLog{}, fmt.Errorf("get division log=%d: %w", id, err)
	}
	if !ok {
		return division.UpdateLog{}, fmt.Errorf("%w: division log=%d", ErrNotFound, id)
	}
	return log, nil
}

func (s *DivisionService) Delete(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.DivisionService.Delete")
	defer span.End()

	removed, err := s.store.UpdateLogs().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete division log=%d: %w", id, err)
	}
	if !removed {
		return fmt.Errorf("%w: division log=%d", ErrNotFound, id)
	}
	return nil
}

func (s *DivisionService) writeLog(ctx context.Context, repos Repositories, kind division.Kind, rows []division.Row) (division.UpdateLog, error) {
	now := s.now()
	log := division.UpdateLog{
		Title:     division.Title(kind, now.In(s.location)),
		Kind:      kind,
		Rows:      rows,
		HTML:      division.RenderHTML(rows),
		CreatedAt: now.UTC(),
	}
	if err := repos.UpdateLogs().Create(ctx, &log); err != nil {
		return division.UpdateLog{}, fmt.Errorf("create division log: %w", err)
	}
	return log, nil
}

// announce never fails the update; a lost announcement is only logged.
func (s *DivisionService) announce(ctx context.Context, log division.UpdateLog) {
	err := s.notifier.Announce(ctx, Announcement{Title: log.Title, Kind: log.Kind, HTML: log.HTML, Rows: log.Rows})
	if err != nil {
		s.logger.WarnContext(ctx, "division announcement failed", "log_id", log.ID, "error", err)
	}
}

func applyRows(ctx context.Context, repos Repositories, rows []division.Row) error {
	for _, row := range rows {
		if row.Held {
			continue
		}
		p, ok, err := repos.Players().Get(ctx, row.PlayerID)
		if err != nil {
			return fmt.Errorf("get player=%d: %w", row.PlayerID, err)
		}
		if !ok {
			continue
		}
		p.Rank = nil
		if row.NewRank != nil {
			p.Rank = player.IntPtr(*row.NewRank)
		}
		if err := repos.Players().Update(ctx, p); err != nil {
			return fmt.Errorf("update division player=%d: %w", p.ID, err)
		}
	}
	return nil
}
