package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/boqmatch/backend/internal/domain"
)

const aliasColumns = "id, alias_name, material_code, confidence_score, created_at"

func scanAlias(scanner interface{ Scan(dest ...any) error }) (*domain.MaterialAlias, error) {
	var (
		alias      domain.MaterialAlias
		confidence sql.NullFloat64
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&alias.ID, &alias.AliasName, &alias.MaterialCode, &confidence, &createdRaw); err != nil {
		return nil, err
	}
	alias.ConfidenceScore = floatFromNull(confidence)
	if createdRaw.Valid {
		if ts, err := time.Parse(timestampLayout, createdRaw.String); err == nil {
			alias.CreatedAt = ts
		}
	}
	return &alias, nil
}

// FindAliasByName looks up an alias by exact normalized name.
func (s *Store) FindAliasByName(ctx context.Context, aliasName string) (*domain.MaterialAlias, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+aliasColumns+" FROM material_aliases WHERE alias_name = ?", aliasName)
	alias, err := scanAlias(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAliasNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAliasLookupFailed, err)
	}
	return alias, nil
}

// InsertAlias stores a new alias. An existing row with the same name is left
// untouched and reported as domain.ErrAliasExists.
func (s *Store) InsertAlias(ctx context.Context, alias domain.MaterialAlias) error {
	createdAt := alias.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO material_aliases (id, alias_name, material_code, confidence_score, created_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(alias_name) DO NOTHING`,
		alias.ID,
		alias.AliasName,
		alias.MaterialCode,
		nullableFloat(alias.ConfidenceScore),
		createdAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("insert alias: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrAliasExists
	}
	return nil
}

// ListAliases returns aliases pointing at materialCode, or every alias when it is empty.
func (s *Store) ListAliases(ctx context.Context, materialCode string) ([]domain.MaterialAlias, error) {
	query := "SELECT " + aliasColumns + " FROM material_aliases"
	var args []any
	if materialCode != "" {
		query += " WHERE material_code = ?"
		args = append(args, materialCode)
	}
	query += " ORDER BY alias_name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	defer rows.Close()

	var aliases []domain.MaterialAlias
	for rows.Next() {
		alias, err := scanAlias(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		aliases = append(aliases, *alias)
	}
	return aliases, rows.Err()
}
