package sqlite

import (
	"context"
	"fmt"

	"github.com/ongekimuseum/museum-server/internal/domain"
)

const songColumns = `id, created_at, updated_at, catalog_entry_id, title, artist,
	copyright, added_at, is_deleted`

func scanSong(scanner interface{ Scan(dest ...any) error }) (*domain.Song, error) {
	var s domain.Song

	var (
		createdAt string
		updatedAt string
		addedAt   string
		isDeleted int
	)

	err := scanner.Scan(
		&s.ID,
		&createdAt,
		&updatedAt,
		&s.CatalogEntryID,
		&s.Title,
		&s.Artist,
		&s.Copyright,
		&addedAt,
		&isDeleted,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	s.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	s.AddedAt, err = parseTime(addedAt)
	if err != nil {
		return nil, err
	}
	s.Deleted = isDeleted != 0

	return &s, nil
}

// ListSongs returns all songs, newest addition first.
func (s *Store) ListSongs(ctx context.Context) ([]*domain.Song, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+songColumns+` FROM songs ORDER BY added_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query songs: %w", err)
	}
	defer rows.Close()

	var songs []*domain.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan songs: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return songs, nil
}

// SaveSongs upserts the given songs in a single transaction.
func (s *Store) SaveSongs(ctx context.Context, songs []*domain.Song) error {
	if len(songs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, song := range songs {
		if song.CreatedAt.IsZero() {
			song.InitTimestamps()
		} else {
			song.Touch()
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO songs (
				id, created_at, updated_at, catalog_entry_id, title, artist,
				copyright, added_at, is_deleted
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				updated_at = excluded.updated_at,
				catalog_entry_id = excluded.catalog_entry_id,
				title = excluded.title,
				artist = excluded.artist,
				copyright = excluded.copyright,
				added_at = excluded.added_at,
				is_deleted = excluded.is_deleted`,
			song.ID,
			formatTime(song.CreatedAt),
			formatTime(song.UpdatedAt),
			song.CatalogEntryID,
			song.Title,
			song.Artist,
			song.Copyright,
			formatTime(song.AddedAt),
			boolToInt(song.Deleted),
		)
		if err != nil {
			return fmt.Errorf("upsert songs %s: %w", song.ID, err)
		}
	}

	return tx.Commit()
}
