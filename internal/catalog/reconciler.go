package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ongekimuseum/museum-server/internal/domain"
	"github.com/ongekimuseum/museum-server/internal/errors"
	"github.com/ongekimuseum/museum-server/internal/feed"
	"github.com/ongekimuseum/museum-server/internal/id"
	"github.com/ongekimuseum/museum-server/internal/ops"
)

// Store is the persistence surface the reconciler needs.
type Store interface {
	ListCatalogEntries(ctx context.Context) ([]*domain.CatalogEntry, error)
	SaveCatalogEntries(ctx context.Context, entries []*domain.CatalogEntry) error
}

// Result summarizes one reconciliation run.
type Result struct {
	Inserted    int
	Updated     int
	Restored    int
	SoftDeleted int
}

// Reconciler mirrors feed batches into the catalog_entry table.
type Reconciler struct {
	store       Store
	corrections Corrections
	logger      *slog.Logger
	notifier    ops.Notifier
}

// NewReconciler creates a reconciler with the given correction tables.
func NewReconciler(store Store, corrections Corrections, logger *slog.Logger, notifier ops.Notifier) *Reconciler {
	return &Reconciler{
		store:       store,
		corrections: corrections,
		logger:      logger,
		notifier:    notifier,
	}
}

// Reconcile applies one feed batch to the mirror and commits every change
// in a single transaction. The batch is treated as the complete upstream
// catalog: every mirror row is presumed gone until the batch proves it
// present (mark and sweep), so rows missing from the batch end up
// soft-deleted. Rows are never hard-deleted.
//
// A row whose fields differ from its batch record is updated and undeleted.
// A row that matches its record exactly but was soft-deleted before the run
// is restored. Reconciling the same batch twice yields an all-zero Result
// on the second run.
func (r *Reconciler) Reconcile(ctx context.Context, batch []feed.Record) (Result, error) {
	entries, err := r.store.ListCatalogEntries(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.CodePersistence, "load catalog mirror")
	}

	// The feed is roughly release-ordered; keep processing deterministic.
	batch = slices.Clone(batch)
	slices.SortStableFunc(batch, func(a, b feed.Record) int {
		return strings.Compare(a.Date, b.Date)
	})

	// Mark phase: presume every live row deleted, remembering the state it
	// had before the run so restores can be told apart from sweep marks.
	wasDeleted := make(map[*domain.CatalogEntry]bool, len(entries))
	for _, e := range entries {
		wasDeleted[e] = e.Deleted
		e.Deleted = true
	}

	var result Result
	var inserted []*domain.CatalogEntry
	updated := make(map[*domain.CatalogEntry]bool)

	for _, rec := range batch {
		rec = r.corrections.normalizeRecord(rec)

		e := ResolveIdentity(rec, entries)
		if e == nil {
			newEntry, err := newEntryFromRecord(rec)
			if err != nil {
				return Result{}, err
			}
			entries = append(entries, newEntry)
			inserted = append(inserted, newEntry)
			result.Inserted++
			r.logger.Info("catalog entry inserted", "title", rec.Title, "artist", rec.Artist)
			continue
		}

		if applyRecord(e, rec) {
			e.Deleted = false
			updated[e] = true
			result.Updated++
			r.logger.Info("catalog entry updated", "id", e.ID, "title", e.Title)
		} else {
			if wasDeleted[e] && e.Deleted {
				result.Restored++
				r.logger.Info("catalog entry restored", "id", e.ID, "title", e.Title)
			}
			e.Deleted = false
		}
	}

	// Sweep phase: anything still marked deleted was absent from the batch.
	toSave := inserted
	for _, e := range entries {
		if _, existing := wasDeleted[e]; !existing {
			continue
		}
		if updated[e] || e.Deleted != wasDeleted[e] {
			toSave = append(toSave, e)
		}
		if e.Deleted && !wasDeleted[e] {
			result.SoftDeleted++
			r.logger.Info("catalog entry soft-deleted", "id", e.ID, "title", e.Title)
		}
	}

	if err := r.store.SaveCatalogEntries(ctx, toSave); err != nil {
		return Result{}, errors.Wrap(err, errors.CodePersistence, "save catalog mirror")
	}

	r.logger.Info("catalog reconciled",
		"batch", len(batch),
		"inserted", result.Inserted,
		"updated", result.Updated,
		"restored", result.Restored,
		"soft_deleted", result.SoftDeleted,
	)
	r.notifier.Notify(ctx, ops.SeverityInfo, fmt.Sprintf(
		"catalog reconciled: %d inserted, %d updated, %d restored, %d soft-deleted",
		result.Inserted, result.Updated, result.Restored, result.SoftDeleted,
	))

	return result, nil
}

// newEntryFromRecord stages a brand new mirror row.
func newEntryFromRecord(rec feed.Record) (*domain.CatalogEntry, error) {
	entryID, err := id.Generate(id.PrefixCatalogEntry)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate catalog entry id")
	}

	e := &domain.CatalogEntry{ID: entryID}
	applyRecord(e, rec)
	e.Deleted = false
	return e, nil
}

// applyRecord copies every mirrored field from the record onto the entry
// and reports whether anything differed.
func applyRecord(e *domain.CatalogEntry, rec feed.Record) bool {
	changed := false
	set := func(dst *string, v string) {
		if *dst != v {
			*dst = v
			changed = true
		}
	}

	set(&e.New, rec.New)
	set(&e.ReleaseDate, rec.Date)
	set(&e.Title, rec.Title)
	set(&e.TitleSort, rec.TitleSort)
	set(&e.Artist, rec.Artist)
	set(&e.ExternalID, rec.ID)
	set(&e.ChapterID, rec.ChapID)
	set(&e.ChapterName, rec.Chapter)
	set(&e.Character, rec.Character)
	set(&e.CharacterID, rec.CharaID)
	set(&e.Category, rec.Category)
	set(&e.CategoryID, rec.CategoryID)
	set(&e.Lunatic, rec.Lunatic)
	set(&e.Bonus, rec.Bonus)
	set(&e.Copyright, rec.Copyright)
	set(&e.LevBas, rec.LevBas)
	set(&e.LevAdv, rec.LevAdv)
	set(&e.LevExc, rec.LevExc)
	set(&e.LevMas, rec.LevMas)
	set(&e.LevLnt, rec.LevLnt)
	set(&e.ImageURL, rec.ImageURL)

	return changed
}
