package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

const siteColumns = "id, domain, client_id, project_id, status, created_at, updated_at"

type SiteRepo struct {
	tx DBTX
}

func NewSiteRepo(tx DBTX) *SiteRepo {
	return &SiteRepo{tx: tx}
}

func scanSite(row pgx.Row) (*db.Site, error) {
	var site db.Site
	err := row.Scan(&site.ID, &site.Domain, &site.ClientID, &site.ProjectID, &site.Status, &site.CreatedAt, &site.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *SiteRepo) GetSite(ctx context.Context, id uint64) (*db.Site, error) {
	site, err := scanSite(r.tx.QueryRow(ctx, "SELECT "+siteColumns+" FROM sites WHERE id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return nil, errs.NotFoundError{Entity: "site", ID: id}
		}
		return nil, fmt.Errorf("err getting site, %w", err)
	}
	return site, nil
}

type SiteFilter struct {
	ClientID *uint64
	Status   *consts.SiteStatus
}

func (r *SiteRepo) ListSites(ctx context.Context, filter SiteFilter) ([]db.Site, error) {
	var where []string
	var args []any
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		where = append(where, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	query := "SELECT " + siteColumns + " FROM sites"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("err listing sites, %w", err)
	}
	defer rows.Close()

	sites := []db.Site{}
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("err scanning site, %w", err)
		}
		sites = append(sites, *site)
	}
	return sites, rows.Err()
}

// FindDomainConflict returns the site holding domain, ignoring excludeID
// when it is non-zero. A nil site means the domain is free.
func (r *SiteRepo) FindDomainConflict(ctx context.Context, domain string, excludeID uint64) (*errs.ConflictError, error) {
	var conflict errs.ConflictError
	err := r.tx.QueryRow(ctx, `SELECT s.id, s.domain, c.id, c.name FROM sites s
		JOIN clients c ON c.id = s.client_id
		WHERE s.domain = $1 AND s.id <> $2 LIMIT 1`, domain, excludeID,
	).Scan(&conflict.SiteID, &conflict.Domain, &conflict.ClientID, &conflict.ClientName)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("can't check for duplicate domain, %w", err)
	}
	return &conflict, nil
}

func (r *SiteRepo) InsertSite(ctx context.Context, site *db.Site) error {
	err := r.tx.QueryRow(ctx, `INSERT INTO sites(domain, client_id, project_id, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		site.Domain, site.ClientID, site.ProjectID, site.Status, site.CreatedAt, site.UpdatedAt,
	).Scan(&site.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.ConflictError{Domain: site.Domain}
		}
		return fmt.Errorf("insert failed, %w", err)
	}
	return nil
}

func (r *SiteRepo) UpdateSite(ctx context.Context, site *db.Site) error {
	site.UpdatedAt = time.Now()
	tag, err := r.tx.Exec(ctx, "UPDATE sites SET domain = $1, status = $2, updated_at = $3 WHERE id = $4",
		site.Domain, site.Status, site.UpdatedAt, site.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.ConflictError{Domain: site.Domain}
		}
		return fmt.Errorf("err updating site, %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundError{Entity: "site", ID: site.ID}
	}
	return nil
}

func (r *SiteRepo) SetStatus(ctx context.Context, id uint64, status consts.SiteStatus) error {
	tag, err := r.tx.Exec(ctx, "UPDATE sites SET status = $1, updated_at = $2 WHERE id = $3", status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("err updating site status, %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundError{Entity: "site", ID: id}
	}
	return nil
}

func (r *SiteRepo) DeleteSite(ctx context.Context, id uint64) error {
	tag, err := r.tx.Exec(ctx, "DELETE FROM sites WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("err deleting site, %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundError{Entity: "site", ID: id}
	}
	return nil
}
