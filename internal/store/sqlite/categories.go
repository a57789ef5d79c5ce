package sqlite

import (
	"context"
	"fmt"

	"github.com/ongekimuseum/museum-server/internal/domain"
)

const categoryColumns = `id, created_at, updated_at, upstream_id, name`

func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var c domain.Category

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

// ListCategories returns all categories in upstream id order.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY upstream_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan categories: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return categories, nil
}

// SaveCategories upserts the given categories in a single transaction.
func (s *Store) SaveCategories(ctx context.Context, categories []*domain.Category) error {
	if len(categories) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, c := range categories {
		if c.CreatedAt.IsZero() {
			c.InitTimestamps()
		} else {
			c.Touch()
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (id, created_at, updated_at, upstream_id, name)
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
			return fmt.Errorf("upsert categories %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}
