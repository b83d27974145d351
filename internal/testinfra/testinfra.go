package testinfra

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	infradb "github.com/Builder-Lawyers/builder-admin/internal/infra/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

var (
	Pool *pgxpool.Pool
	once sync.Once
)

// SetupDB starts one PostgreSQL container per test binary and applies the
// migrations. Later calls return the same pool.
func SetupDB() *pgxpool.Pool {
	once.Do(func() {
		Pool = startDB()
	})
	return Pool
}

func startDB() *pgxpool.Pool {
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:17.2-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	if err != nil {
		log.Panicf("start postgres: %v", err)
	}

	pgHostPort, err := pgC.Endpoint(ctx, "")
	if err != nil {
		log.Panicf("postgres endpoint: %v", err)
	}
	pgDSN := fmt.Sprintf("postgres://postgres:password@%s/testdb?sslmode=disable", pgHostPort)

	pool, err := pgxpool.New(ctx, pgDSN)
	if err != nil {
		log.Panicf("pgxpool connect: %v", err)
	}

	ok := false
	for i := 0; i < 20; i++ {
		zap.S().Debugw("ping db", "try", i)
		ctxPing, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		err = pool.Ping(ctxPing)
		cancel()
		if err == nil {
			ok = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !ok {
		log.Panic("db did not respond after 20 attempts")
	}

	if err = infradb.Migrate(ctx, pool); err != nil {
		log.Panicf("migrate: %v", err)
	}

	return pool
}

// Truncate empties every table and resets ids.
func Truncate(ctx context.Context) {
	_, err := Pool.Exec(ctx, `TRUNCATE outbox, sessions, users, entity_meta, install_steps, sites, projects, clients RESTART IDENTITY CASCADE`)
	if err != nil {
		log.Panicf("err truncating tables %v", err)
	}
}

// SeedSite inserts a client, a project and a site in the given status and
// returns their ids.
func SeedSite(ctx context.Context, domain string, status consts.SiteStatus) (clientID, projectID, siteID uint64) {
	err := Pool.QueryRow(ctx, `INSERT INTO clients(name, email, created_at, updated_at) VALUES ($1,$2,now(),now()) RETURNING id`,
		"Client of "+domain, "owner@"+domain).Scan(&clientID)
	if err != nil {
		log.Panicf("seed client: %v", err)
	}
	err = Pool.QueryRow(ctx, `INSERT INTO projects(client_id, name, description, created_at, updated_at) VALUES ($1,$2,'',now(),now()) RETURNING id`,
		clientID, "Website").Scan(&projectID)
	if err != nil {
		log.Panicf("seed project: %v", err)
	}
	err = Pool.QueryRow(ctx, `INSERT INTO sites(domain, client_id, project_id, status, created_at, updated_at) VALUES ($1,$2,$3,$4,now(),now()) RETURNING id`,
		domain, clientID, projectID, status).Scan(&siteID)
	if err != nil {
		log.Panicf("seed site: %v", err)
	}
	return clientID, projectID, siteID
}

// SeedStep inserts one install step. A nil payload leaves the column NULL.
func SeedStep(ctx context.Context, siteID uint64, stepType consts.StepType, status consts.StepStatus, payload []byte) uint64 {
	var id uint64
	err := Pool.QueryRow(ctx, `INSERT INTO install_steps(site_id, step_type, status, payload, order_index, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now(),now()) RETURNING id`,
		siteID, stepType, status, payload, stepType.Order()).Scan(&id)
	if err != nil {
		log.Panicf("seed step: %v", err)
	}
	return id
}
