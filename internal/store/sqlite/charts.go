package sqlite

import (
	"context"
	"fmt"

	"github.com/ongekimuseum/museum-server/internal/domain"
)

const chartColumns = `id, created_at, updated_at, song_id, difficulty, level, is_bonus, is_deleted`

func scanChart(scanner interface{ Scan(dest ...any) error }) (*domain.Chart, error) {
	var c domain.Chart

	var (
		createdAt string
		updatedAt string
		isBonus   int
		isDeleted int
	)

	err := scanner.Scan(
		&c.ID,
		&createdAt,
		&updatedAt,
		&c.SongID,
		&c.Difficulty,
		&c.Level,
		&isBonus,
		&isDeleted,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	c.Bonus = isBonus != 0
	c.Deleted = isDeleted != 0

	return &c, nil
}

// ListCharts returns all charts grouped by song, easiest slot first within a
// song.
func (s *Store) ListCharts(ctx context.Context) ([]*domain.Chart, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+chartColumns+` FROM charts ORDER BY song_id DESC, difficulty ASC`)
	if err != nil {
		return nil, fmt.Errorf("query charts: %w", err)
	}
	defer rows.Close()

	var charts []*domain.Chart
	for rows.Next() {
		c, err := scanChart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan charts: %w", err)
		}
		charts = append(charts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return charts, nil
}

// ChartWithSong pairs a chart with the song it belongs to.
type ChartWithSong struct {
	Chart *domain.Chart
	Song  *domain.Song
}

// ListChartsWithSongs joins every chart to its song, newest song first.
func (s *Store) ListChartsWithSongs(ctx context.Context) ([]*ChartWithSong, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			c.id, c.created_at, c.updated_at, c.song_id, c.difficulty, c.level, c.is_bonus, c.is_deleted,
			s.id, s.created_at, s.updated_at, s.catalog_entry_id, s.title, s.artist,
			s.copyright, s.added_at, s.is_deleted
		FROM charts c
		JOIN songs s ON s.id = c.song_id
		ORDER BY s.added_at DESC, c.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query charts join: %w", err)
	}
	defer rows.Close()

	var out []*ChartWithSong
	for rows.Next() {
		var (
			c    domain.Chart
			song domain.Song

			chartCreatedAt string
			chartUpdatedAt string
			chartBonus     int
			chartDeleted   int
			songCreatedAt  string
			songUpdatedAt  string
			songAddedAt    string
			songDeleted    int
		)

		err := rows.Scan(
			&c.ID, &chartCreatedAt, &chartUpdatedAt, &c.SongID, &c.Difficulty, &c.Level, &chartBonus, &chartDeleted,
			&song.ID, &songCreatedAt, &songUpdatedAt, &song.CatalogEntryID, &song.Title, &song.Artist,
			&song.Copyright, &songAddedAt, &songDeleted,
		)
		if err != nil {
			return nil, fmt.Errorf("scan charts join: %w", err)
		}

		if c.CreatedAt, err = parseTime(chartCreatedAt); err != nil {
			return nil, err
		}
		if c.UpdatedAt, err = parseTime(chartUpdatedAt); err != nil {
			return nil, err
		}
		if song.CreatedAt, err = parseTime(songCreatedAt); err != nil {
			return nil, err
		}
		if song.UpdatedAt, err = parseTime(songUpdatedAt); err != nil {
			return nil, err
		}
		if song.AddedAt, err = parseTime(songAddedAt); err != nil {
			return nil, err
		}
		c.Bonus = chartBonus != 0
		c.Deleted = chartDeleted != 0
		song.Deleted = songDeleted != 0

		out = append(out, &ChartWithSong{Chart: &c, Song: &song})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// SaveCharts upserts the given charts in a single transaction.
func (s *Store) SaveCharts(ctx context.Context, charts []*domain.Chart) error {
	if len(charts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, c := range charts {
		if c.CreatedAt.IsZero() {
			c.InitTimestamps()
		} else {
			c.Touch()
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO charts (
				id, created_at, updated_at, song_id, difficulty, level, is_bonus, is_deleted
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				updated_at = excluded.updated_at,
				song_id = excluded.song_id,
				difficulty = excluded.difficulty,
				level = excluded.level,
				is_bonus = excluded.is_bonus,
				is_deleted = excluded.is_deleted`,
			c.ID,
			formatTime(c.CreatedAt),
			formatTime(c.UpdatedAt),
			c.SongID,
			int(c.Difficulty),
			c.Level,
			boolToInt(c.Bonus),
			boolToInt(c.Deleted),
		)
		if err != nil {
			return fmt.Errorf("upsert charts %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}
