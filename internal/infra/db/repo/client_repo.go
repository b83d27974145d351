package repo

import (
	"context"
	"fmt"

	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

type ClientRepo struct {
	tx DBTX
}

func NewClientRepo(tx DBTX) *ClientRepo {
	return &ClientRepo{tx: tx}
}

func scanClient(row pgx.Row) (*db.Client, error) {
	var client db.Client
	if err := row.Scan(&client.ID, &client.Name, &client.Email, &client.Phone, &client.CreatedAt, &client.UpdatedAt); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepo) InsertClient(ctx context.Context, client *db.Client) error {
	err := r.tx.QueryRow(ctx, `INSERT INTO clients(name, email, phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		client.Name, client.Email, client.Phone, client.CreatedAt, client.UpdatedAt).Scan(&client.ID)
	if err != nil {
		return fmt.Errorf("err inserting client, %w", err)
	}
	return nil
}

func (r *ClientRepo) GetClient(ctx context.Context, id uint64) (*db.Client, error) {
	client, err := scanClient(r.tx.QueryRow(ctx,
		"SELECT id, name, email, phone, created_at, updated_at FROM clients WHERE id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return nil, errs.NotFoundError{Entity: "client", ID: id}
		}
		return nil, fmt.Errorf("err getting client, %w", err)
	}
	return client, nil
}

func (r *ClientRepo) ListClients(ctx context.Context) ([]db.Client, error) {
	rows, err := r.tx.Query(ctx, "SELECT id, name, email, phone, created_at, updated_at FROM clients ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("err listing clients, %w", err)
	}
	defer rows.Close()

	clients := []db.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("err scanning client, %w", err)
		}
		clients = append(clients, *client)
	}
	return clients, rows.Err()
}

type ProjectRepo struct {
	tx DBTX
}

func NewProjectRepo(tx DBTX) *ProjectRepo {
	return &ProjectRepo{tx: tx}
}

func scanProject(row pgx.Row) (*db.Project, error) {
	var project db.Project
	if err := row.Scan(&project.ID, &project.ClientID, &project.Name, &project.Description, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepo) InsertProject(ctx context.Context, project *db.Project) error {
	err := r.tx.QueryRow(ctx, `INSERT INTO projects(client_id, name, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		project.ClientID, project.Name, project.Description, project.CreatedAt, project.UpdatedAt).Scan(&project.ID)
	if err != nil {
		return fmt.Errorf("err inserting project, %w", err)
	}
	return nil
}

func (r *ProjectRepo) GetProject(ctx context.Context, id uint64) (*db.Project, error) {
	project, err := scanProject(r.tx.QueryRow(ctx,
		"SELECT id, client_id, name, description, created_at, updated_at FROM projects WHERE id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return nil, errs.NotFoundError{Entity: "project", ID: id}
		}
		return nil, fmt.Errorf("err getting project, %w", err)
	}
	return project, nil
}

func (r *ProjectRepo) ListProjects(ctx context.Context, clientID *uint64) ([]db.Project, error) {
	query := "SELECT id, client_id, name, description, created_at, updated_at FROM projects"
	var args []any
	if clientID != nil {
		query += " WHERE client_id = $1"
		args = append(args, *clientID)
	}
	rows, err := r.tx.Query(ctx, query+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("err listing projects, %w", err)
	}
	defer rows.Close()

	projects := []db.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("err scanning project, %w", err)
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}
