package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

const stepColumns = "id, site_id, step_type, status, error_message, payload, order_index, created_at, updated_at"

type StepRepo struct {
	tx DBTX
}

func NewStepRepo(tx DBTX) *StepRepo {
	return &StepRepo{tx: tx}
}

func scanStep(row pgx.Row) (*db.InstallStep, error) {
	var step db.InstallStep
	err := row.Scan(&step.ID, &step.SiteID, &step.StepType, &step.Status, &step.ErrorMessage,
		&step.Payload, &step.OrderIndex, &step.CreatedAt, &step.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *StepRepo) collect(rows pgx.Rows) ([]db.InstallStep, error) {
	defer rows.Close()
	steps := []db.InstallStep{}
	for rows.Next() {
		step, err := scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("err scanning step, %w", err)
		}
		steps = append(steps, *step)
	}
	return steps, rows.Err()
}

func (r *StepRepo) ListSteps(ctx context.Context, siteID uint64) ([]db.InstallStep, error) {
	rows, err := r.tx.Query(ctx, "SELECT "+stepColumns+" FROM install_steps WHERE site_id = $1 ORDER BY order_index, id", siteID)
	if err != nil {
		return nil, fmt.Errorf("err listing steps, %w", err)
	}
	return r.collect(rows)
}

// ListProgressSteps returns every step except PRE_INSTALLATION.
func (r *StepRepo) ListProgressSteps(ctx context.Context, siteID uint64) ([]db.InstallStep, error) {
	rows, err := r.tx.Query(ctx, "SELECT "+stepColumns+" FROM install_steps WHERE site_id = $1 AND step_type <> $2 ORDER BY order_index, id",
		siteID, consts.StepTypePreInstallation)
	if err != nil {
		return nil, fmt.Errorf("err listing steps, %w", err)
	}
	return r.collect(rows)
}

func (r *StepRepo) GetStep(ctx context.Context, siteID uint64, stepType consts.StepType) (*db.InstallStep, error) {
	step, err := scanStep(r.tx.QueryRow(ctx, "SELECT "+stepColumns+" FROM install_steps WHERE site_id = $1 AND step_type = $2",
		siteID, stepType))
	if err != nil {
		if isNoRows(err) {
			return nil, errs.NotFoundError{Entity: "install step", ID: stepType}
		}
		return nil, fmt.Errorf("err getting step, %w", err)
	}
	return step, nil
}

// LockStep is GetStep with a row lock held until the transaction ends.
func (r *StepRepo) LockStep(ctx context.Context, siteID uint64, stepType consts.StepType) (*db.InstallStep, error) {
	step, err := scanStep(r.tx.QueryRow(ctx, "SELECT "+stepColumns+" FROM install_steps WHERE site_id = $1 AND step_type = $2 FOR UPDATE",
		siteID, stepType))
	if err != nil {
		if isNoRows(err) {
			return nil, errs.NotFoundError{Entity: "install step", ID: stepType}
		}
		return nil, fmt.Errorf("err locking step, %w", err)
	}
	return step, nil
}

// EnsureStep inserts a PENDING step unless one exists for (site, type).
func (r *StepRepo) EnsureStep(ctx context.Context, siteID uint64, stepType consts.StepType, payload json.RawMessage) error {
	now := time.Now()
	_, err := r.tx.Exec(ctx, `INSERT INTO install_steps(site_id, step_type, status, payload, order_index, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$6) ON CONFLICT (site_id, step_type) DO NOTHING`,
		siteID, stepType, consts.StepStatusPending, payload, stepType.Order(), now)
	if err != nil {
		return fmt.Errorf("err creating step %s, %w", stepType, err)
	}
	return nil
}

// UpsertPayload stages a payload on the step, creating it when missing.
func (r *StepRepo) UpsertPayload(ctx context.Context, siteID uint64, stepType consts.StepType, payload json.RawMessage) error {
	now := time.Now()
	_, err := r.tx.Exec(ctx, `INSERT INTO install_steps(site_id, step_type, status, payload, order_index, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$6)
		ON CONFLICT (site_id, step_type) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		siteID, stepType, consts.StepStatusPending, payload, stepType.Order(), now)
	if err != nil {
		return fmt.Errorf("err staging payload for %s, %w", stepType, err)
	}
	return nil
}

func (r *StepRepo) SetStatus(ctx context.Context, id uint64, status consts.StepStatus, errorMessage *string) (*db.InstallStep, error) {
	step, err := scanStep(r.tx.QueryRow(ctx, `UPDATE install_steps SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4 RETURNING `+stepColumns, status, errorMessage, time.Now(), id))
	if err != nil {
		if isNoRows(err) {
			return nil, errs.NotFoundError{Entity: "install step", ID: id}
		}
		return nil, fmt.Errorf("err updating step status, %w", err)
	}
	return step, nil
}

func (r *StepRepo) DeleteStepsByType(ctx context.Context, siteID uint64, stepType consts.StepType) (int64, error) {
	tag, err := r.tx.Exec(ctx, "DELETE FROM install_steps WHERE site_id = $1 AND step_type = $2", siteID, stepType)
	if err != nil {
		return 0, fmt.Errorf("err deleting %s steps, %w", stepType, err)
	}
	return tag.RowsAffected(), nil
}

func (r *StepRepo) DeleteSiteSteps(ctx context.Context, siteID uint64) (int64, error) {
	tag, err := r.tx.Exec(ctx, "DELETE FROM install_steps WHERE site_id = $1", siteID)
	if err != nil {
		return 0, fmt.Errorf("err deleting site steps, %w", err)
	}
	return tag.RowsAffected(), nil
}
