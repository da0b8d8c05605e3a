package sqlite

import (
	"context"
	"fmt"

	"github.com/boqmatch/backend/internal/domain"
)

// ListMaterials returns the catalog ordered by id so repeated loads scan in the same order.
func (s *Store) ListMaterials(ctx context.Context) ([]domain.Material, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, category FROM materials ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var materials []domain.Material
	for rows.Next() {
		var m domain.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Category); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}
	return materials, nil
}

// UpsertMaterials inserts or replaces catalog rows in a single transaction.
func (s *Store) UpsertMaterials(ctx context.Context, materials []domain.Material) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO materials (id, name, category) VALUES (?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET name = excluded.name, category = excluded.category`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, m := range materials {
		if m.ID == "" {
			return fmt.Errorf("%w: material without id (%q)", domain.ErrInvalidRequest, m.Name)
		}
		if _, err := stmt.ExecContext(ctx, m.ID, m.Name, m.Category); err != nil {
			return fmt.Errorf("upsert material %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}
