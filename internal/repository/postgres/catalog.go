package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS catalog_versions (
	id         BIGSERIAL PRIMARY KEY,
	document   JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// CatalogVersion is one published revision of the catalog document.
type CatalogVersion struct {
	ID        int64
	Document  json.RawMessage
	CreatedAt time.Time
}

type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// EnsureSchema creates the catalog_versions table if it is missing.
func (r *CatalogRepo) EnsureSchema(ctx context.Context) error {
	const op = "postgres.CatalogRepo.EnsureSchema"

	if _, err := r.handle().Exec(ctx, catalogSchema); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Latest retrieves the most recently published catalog document.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//
// Returns:
//   - *CatalogVersion: the latest version.
//   - error: repository.ErrNotFound if nothing has been published yet.
func (r *CatalogRepo) Latest(ctx context.Context) (*CatalogVersion, error) {
	const op = "postgres.CatalogRepo.Latest"

	var v CatalogVersion
	err := r.handle().QueryRow(ctx,
		`SELECT id, document, created_at
		 FROM catalog_versions
		 ORDER BY id DESC
		 LIMIT 1`,
	).Scan(&v.ID, &v.Document, &v.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &v, nil
}

// Insert stores a new catalog version.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - document: the raw catalog JSON.
//
// Returns:
//   - int64: the id of the new version.
//   - error: if the insert fails.
func (r *CatalogRepo) Insert(ctx context.Context, document json.RawMessage) (int64, error) {
	const op = "postgres.CatalogRepo.Insert"

	var id int64
	err := r.handle().QueryRow(ctx,
		`INSERT INTO catalog_versions (document)
		 VALUES ($1)
		 RETURNING id`,
		document,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// Prune deletes every version older than the newest keep versions.
func (r *CatalogRepo) Prune(ctx context.Context, keep int) (int64, error) {
	const op = "postgres.CatalogRepo.Prune"

	tag, err := r.handle().Exec(ctx,
		`DELETE FROM catalog_versions
		 WHERE id NOT IN (
		 	SELECT id FROM catalog_versions ORDER BY id DESC LIMIT $1
		 )`,
		keep,
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}
