package query

import (
	"context"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/Builder-Lawyers/builder-admin/internal/infra/db/repo"
	dbs "github.com/Builder-Lawyers/builder-admin/pkg/db"
)

type GetClients struct {
	uowFactory *dbs.UOWFactory
}

func NewGetClients(factory *dbs.UOWFactory) *GetClients {
	return &GetClients{uowFactory: factory}
}

func (c *GetClients) List(ctx context.Context) ([]dto.Client, error) {
	clients, err := repo.NewClientRepo(c.uowFactory.Pool).ListClients(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.Client, 0, len(clients))
	for _, client := range clients {
		resp = append(resp, db.MapClientToDTO(client))
	}
	return resp, nil
}

func (c *GetClients) Get(ctx context.Context, id uint64) (*dto.Client, error) {
	client, err := repo.NewClientRepo(c.uowFactory.Pool).GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := db.MapClientToDTO(*client)
	return &resp, nil
}

func (c *GetClients) ListProjects(ctx context.Context, clientID *uint64) ([]dto.Project, error) {
	projects, err := repo.NewProjectRepo(c.uowFactory.Pool).ListProjects(ctx, clientID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.Project, 0, len(projects))
	for _, project := range projects {
		resp = append(resp, db.MapProjectToDTO(project))
	}
	return resp, nil
}
