package sqlite

import (
	"context"
	"fmt"

	"github.com/ongekimuseum/museum-server/internal/domain"
)

// catalogEntryColumns is the ordered list of columns selected in catalog
// queries. Must match the scan order in scanCatalogEntry.
const catalogEntryColumns = `id, created_at, updated_at, new_flag, release_date, title, title_sort,
	artist, external_id, chapter_id, chapter_name, character, character_id,
	category, category_id, lunatic, bonus, copyright,
	lev_bas, lev_adv, lev_exc, lev_mas, lev_lnt, image_url, is_deleted`

// scanCatalogEntry scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.CatalogEntry.
func scanCatalogEntry(scanner interface{ Scan(dest ...any) error }) (*domain.CatalogEntry, error) {
	var e domain.CatalogEntry

	var (
		createdAt string
		updatedAt string
		isDeleted int
	)

	err := scanner.Scan(
		&e.ID,
		&createdAt,
		&updatedAt,
		&e.New,
		&e.ReleaseDate,
		&e.Title,
		&e.TitleSort,
		&e.Artist,
		&e.ExternalID,
		&e.ChapterID,
		&e.ChapterName,
		&e.Character,
		&e.CharacterID,
		&e.Category,
		&e.CategoryID,
		&e.Lunatic,
		&e.Bonus,
		&e.Copyright,
		&e.LevBas,
		&e.LevAdv,
		&e.LevExc,
		&e.LevMas,
		&e.LevLnt,
		&e.ImageURL,
		&isDeleted,
	)
	if err != nil {
		return nil, err
	}

	e.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	e.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	e.Deleted = isDeleted != 0

	return &e, nil
}

// ListCatalogEntries returns every mirror row, soft-deleted ones included,
// newest release first.
func (s *Store) ListCatalogEntries(ctx context.Context) ([]*domain.CatalogEntry, error) {
	return s.listCatalogEntries(ctx,
		`SELECT `+catalogEntryColumns+` FROM catalog_entries
		ORDER BY release_date DESC, id ASC`)
}

// ListActiveCatalogEntries returns mirror rows that are not soft-deleted,
// newest release first.
func (s *Store) ListActiveCatalogEntries(ctx context.Context) ([]*domain.CatalogEntry, error) {
	return s.listCatalogEntries(ctx,
		`SELECT `+catalogEntryColumns+` FROM catalog_entries
		WHERE is_deleted = 0
		ORDER BY release_date DESC, id ASC`)
}

func (s *Store) listCatalogEntries(ctx context.Context, query string) ([]*domain.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query catalog_entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.CatalogEntry
	for rows.Next() {
		e, err := scanCatalogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog_entries: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return entries, nil
}

// SaveCatalogEntries upserts the given rows in a single transaction. Rows
// without timestamps are initialized; existing rows get their updated_at
// touched. Nothing is written if any statement fails.
func (s *Store) SaveCatalogEntries(ctx context.Context, entries []*domain.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			e.InitTimestamps()
		} else {
			e.Touch()
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO catalog_entries (
				id, created_at, updated_at, new_flag, release_date, title, title_sort,
				artist, external_id, chapter_id, chapter_name, character, character_id,
				category, category_id, lunatic, bonus, copyright,
				lev_bas, lev_adv, lev_exc, lev_mas, lev_lnt, image_url, is_deleted
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				updated_at = excluded.updated_at,
				new_flag = excluded.new_flag,
				release_date = excluded.release_date,
				title = excluded.title,
				title_sort = excluded.title_sort,
				artist = excluded.artist,
				external_id = excluded.external_id,
				chapter_id = excluded.chapter_id,
				chapter_name = excluded.chapter_name,
				character = excluded.character,
				character_id = excluded.character_id,
				category = excluded.category,
				category_id = excluded.category_id,
				lunatic = excluded.lunatic,
				bonus = excluded.bonus,
				copyright = excluded.copyright,
				lev_bas = excluded.lev_bas,
				lev_adv = excluded.lev_adv,
				lev_exc = excluded.lev_exc,
				lev_mas = excluded.lev_mas,
				lev_lnt = excluded.lev_lnt,
				image_url = excluded.image_url,
				is_deleted = excluded.is_deleted`,
			e.ID,
			formatTime(e.CreatedAt),
			formatTime(e.UpdatedAt),
			e.New,
			e.ReleaseDate,
			e.Title,
			e.TitleSort,
			e.Artist,
			e.ExternalID,
			e.ChapterID,
			e.ChapterName,
			e.Character,
			e.CharacterID,
			e.Category,
			e.CategoryID,
			e.Lunatic,
			e.Bonus,
			e.Copyright,
			e.LevBas,
			e.LevAdv,
			e.LevExc,
			e.LevMas,
			e.LevLnt,
			e.ImageURL,
			boolToInt(e.Deleted),
		)
		if err != nil {
			return fmt.Errorf("upsert catalog_entries %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}
