package postgres

import (
	"context"

	"mcq-practice-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogStore reads the subject and model lookup tables.
type CatalogStore struct {
	pool *pgxpool.Pool
}

func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

func (s *CatalogStore) ListSubjects(ctx context.Context) ([]domain.CatalogEntry, error) {
	return s.list(ctx, `SELECT subject_id, subject_name FROM subjects ORDER BY subject_name`)
}

func (s *CatalogStore) ListModels(ctx context.Context) ([]domain.CatalogEntry, error) {
	return s.list(ctx, `SELECT model_id, model_name FROM models ORDER BY model_name`)
}

func (s *CatalogStore) list(ctx context.Context, query string) ([]domain.CatalogEntry, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, &domain.StorageError{Op: "query catalog", Err: err}
	}
	defer rows.Close()

	entries := []domain.CatalogEntry{}
	for rows.Next() {
		var entry domain.CatalogEntry
		if err := rows.Scan(&entry.ID, &entry.Name); err != nil {
			return nil, &domain.StorageError{Op: "scan catalog row", Err: err}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "read catalog rows", Err: err}
	}
	return entries, nil
}
