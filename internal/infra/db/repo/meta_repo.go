package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
)

type MetaRepo struct {
	tx DBTX
}

func NewMetaRepo(tx DBTX) *MetaRepo {
	return &MetaRepo{tx: tx}
}

// Upsert writes value under (relID, relType, name), overwriting any
// existing record.
func (r *MetaRepo) Upsert(ctx context.Context, relID uint64, relType, name, value string) error {
	now := time.Now()
	_, err := r.tx.Exec(ctx, `INSERT INTO entity_meta(rel_id, rel_type, name, value, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$5)
		ON CONFLICT (rel_id, rel_type, name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		relID, relType, name, value, now)
	if err != nil {
		return fmt.Errorf("err saving %s meta, %w", name, err)
	}
	return nil
}

func (r *MetaRepo) Get(ctx context.Context, relID uint64, relType, name string) (*db.EntityMeta, error) {
	var meta db.EntityMeta
	err := r.tx.QueryRow(ctx, `SELECT id, rel_id, rel_type, name, value, created_at, updated_at FROM entity_meta
		WHERE rel_id = $1 AND rel_type = $2 AND name = $3`, relID, relType, name,
	).Scan(&meta.ID, &meta.RelID, &meta.RelType, &meta.Name, &meta.Value, &meta.CreatedAt, &meta.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, errs.NotFoundError{Entity: name, ID: relID}
		}
		return nil, fmt.Errorf("err getting %s meta, %w", name, err)
	}
	return &meta, nil
}

func (r *MetaRepo) DeleteAll(ctx context.Context, relID uint64, relType string) (int64, error) {
	tag, err := r.tx.Exec(ctx, "DELETE FROM entity_meta WHERE rel_id = $1 AND rel_type = $2", relID, relType)
	if err != nil {
		return 0, fmt.Errorf("err deleting meta, %w", err)
	}
	return tag.RowsAffected(), nil
}
