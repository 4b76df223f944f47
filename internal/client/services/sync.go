package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/teaisforme/teataster/internal/client/client"
	"github.com/teaisforme/teataster/internal/client/models"
	"github.com/teaisforme/teataster/internal/client/repositories/categories"
	"github.com/teaisforme/teataster/internal/client/repositories/notes"
	"github.com/teaisforme/teataster/internal/common"
	"github.com/teaisforme/teataster/internal/logging"
)

// Synchronizer reconciles the local cache with the backend: it drains pending
// local mutations, then replaces the cache contents with the backend's state.
type Synchronizer struct {
	api        client.Client
	notes      notes.Repository
	categories categories.Repository
	sessions   SessionStore
	log        logging.Logger
}

func NewSynchronizer(api client.Client, notesRepo notes.Repository,
	categoriesRepo categories.Repository, sessions SessionStore, log logging.Logger) *Synchronizer {
	return &Synchronizer{
		api:        api,
		notes:      notesRepo,
		categories: categoriesRepo,
		sessions:   sessions,
		log:        log,
	}
}

// Sync runs one full reconciliation pass. Pending mutations are pushed
// concurrently; if any push fails the cache is left untouched so the dirty
// rows are retried on the next pass. Only after a clean drain are the sync
// markers reset and the cache refreshed from the backend.
func (s *Synchronizer) Sync(ctx context.Context) error {
	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return common.ErrorUnauthorized
	}
	userID := session.User.ID

	all, err := s.notes.GetAll(ctx, userID, true)
	if err != nil {
		return fmt.Errorf("failed to read local cache: %w", err)
	}

	var inserted, updated, deleted int
	g, gctx := errgroup.WithContext(ctx)
	for _, note := range all {
		switch note.SyncStatus {
		case models.SyncStatusInsert:
			inserted++
			c := note
			g.Go(func() error {
				// the backend assigns the real id, the provisional one stays local
				c.ID = 0
				_, err := s.api.SaveTastingNote(gctx, &c)
				return err
			})
		case models.SyncStatusUpdate:
			updated++
			c := note
			g.Go(func() error {
				_, err := s.api.SaveTastingNote(gctx, &c)
				return err
			})
		case models.SyncStatusDelete:
			deleted++
			id := note.ID
			g.Go(func() error {
				err := s.api.DeleteTastingNote(gctx, id)
				if errors.Is(err, common.ErrorNotFound) {
					// already gone remotely, the tombstone can be cleared
					return nil
				}
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrSyncAborted, err)
	}

	if err := s.notes.Reset(ctx, userID); err != nil {
		return fmt.Errorf("failed to reset sync markers: %w", err)
	}

	if err := s.refreshCategories(ctx); err != nil {
		return err
	}
	if err := s.refreshNotes(ctx, userID); err != nil {
		return err
	}

	s.log.Info(ctx, "sync complete",
		"inserted", inserted, "updated", updated, "deleted", deleted)
	return nil
}

func (s *Synchronizer) refreshCategories(ctx context.Context) error {
	remote, err := s.api.ListTeaCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch tea categories: %w", err)
	}

	ids := make([]int64, 0, len(remote))
	for _, c := range remote {
		ids = append(ids, c.ID)
	}
	if err := s.categories.Trim(ctx, ids); err != nil {
		return fmt.Errorf("failed to trim tea categories: %w", err)
	}
	for i := range remote {
		if err := s.categories.Upsert(ctx, &remote[i]); err != nil {
			return fmt.Errorf("failed to refresh tea category: %w", err)
		}
	}
	return nil
}

func (s *Synchronizer) refreshNotes(ctx context.Context, userID int64) error {
	remote, err := s.api.ListTastingNotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch tasting notes: %w", err)
	}

	ids := make([]int64, 0, len(remote))
	for _, n := range remote {
		ids = append(ids, n.ID)
	}
	if err := s.notes.Trim(ctx, ids, userID); err != nil {
		return fmt.Errorf("failed to trim tasting notes: %w", err)
	}
	for i := range remote {
		if err := s.notes.Upsert(ctx, &remote[i], userID); err != nil {
			return fmt.Errorf("failed to refresh tasting note: %w", err)
		}
	}
	return nil
}
