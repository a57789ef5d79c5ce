package sqlite

import (
	"context"
	"fmt"

	"github.com/ongekimuseum/museum-server/internal/domain"
)

const chapterColumns = `id, created_at, updated_at, upstream_id, name`

func scanChapter(scanner interface{ Scan(dest ...any) error }) (*domain.Chapter, error) {
	var c domain.Chapter

	var createdAt, updatedAt string

	err := scanner.Scan(&c.ID, &createdAt, &updatedAt, &c.UpstreamID, &c.Name)
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

	return &c, nil
}

// ListChapters returns all chapters in upstream id order.
func (s *Store) ListChapters(ctx context.Context) ([]*domain.Chapter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+chapterColumns+` FROM chapters ORDER BY upstream_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query chapters: %w", err)
	}
	defer rows.Close()

	var chapters []*domain.Chapter
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chapters: %w", err)
		}
		chapters = append(chapters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return chapters, nil
}

// SaveChapters upserts the given chapters in a single transaction.
func (s *Store) SaveChapters(ctx context.Context, chapters []*domain.Chapter) error {
	if len(chapters) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, c := range chapters {
		if c.CreatedAt.IsZero() {
			c.InitTimestamps()
		} else {
			c.Touch()
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO chapters (id, created_at, updated_at, upstream_id, name)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				updated_at = excluded.updated_at,
				upstream_id = excluded.upstream_id,
				name = excluded.name`,
			c.ID,
			formatTime(c.CreatedAt),
			formatTime(c.UpdatedAt),
			c.UpstreamID,
			c.Name,
		)
		if err != nil {
			return fmt.Errorf("upsert chapters %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}
