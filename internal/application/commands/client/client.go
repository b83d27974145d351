package client

import (
	"context"
	"strings"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
)

type CreateClient struct {
	uowFactory *dbs.UOWFactory
}

func NewCreateClient(factory *dbs.UOWFactory) *CreateClient {
	return &CreateClient{uowFactory: factory}
}

func (c *CreateClient) Execute(ctx context.Context, req *dto.CreateClientRequest) (*dto.Client, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	client := db.Client{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.NewClientRepo(c.uowFactory.Pool).InsertClient(ctx, &client); err != nil {
		return nil, err
	}

	resp := db.MapClientToDTO(client)
	return &resp, nil
}

type CreateProject struct {
	uowFactory *dbs.UOWFactory
}

func NewCreateProject(factory *dbs.UOWFactory) *CreateProject {
	return &CreateProject{uowFactory: factory}
}

func (c *CreateProject) Execute(ctx context.Context, req *dto.CreateProjectRequest) (resp *dto.Project, err error) {
	req.Name = strings.TrimSpace(req.Name)
	if err = dto.Validate(req); err != nil {
		return nil, err
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(ctx, &err)

	if _, err = repo.NewClientRepo(tx).GetClient(ctx, req.ClientID); err != nil {
		return nil, err
	}

	now := time.Now()
	project := db.Project{
		ClientID:    req.ClientID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = repo.NewProjectRepo(tx).InsertProject(ctx, &project); err != nil {
		return nil, err
	}

	created := db.MapProjectToDTO(project)
	return &created, nil
}
