package rest

import (
	"strconv"

	"github.com/Builder-Lawyers/builder-admin/internal/application"
	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	commands   *application.Handlers
	pool       *pgxpool.Pool
	cookieName string
}

func NewServer(commands *application.Handlers, pool *pgxpool.Pool, cookieName string) *Server {
	return &Server{commands: commands, pool: pool, cookieName: cookieName}
}

func RegisterHandlers(router fiber.Router, s *Server) {
	router.Get("/healthz", s.Health)
	router.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authenticated := s.requireAuth()
	staff := requireStaff()
	admin := requireAdmin()

	router.Post("/installations/:id/complete", authenticated, staff, s.CompleteInstallation)
	router.Post("/installations/:id/start", authenticated, staff, s.StartInstallation)
	router.Get("/installations/:id/steps/status-all", authenticated, s.GetStepsStatus)
	router.Get("/installations/:id/steps", authenticated, staff, s.ListSteps)
	router.Post("/installations/:id/steps", authenticated, staff, s.AdvanceStep)

	// registered before /sites/:id so it is not taken for an id
	router.Get("/sites/domain-check", authenticated, s.CheckDomain)
	router.Post("/sites", authenticated, staff, s.CreateSite)
	router.Get("/sites", authenticated, staff, s.ListSites)
	router.Get("/sites/:id", authenticated, staff, s.GetSite)
	router.Put("/sites/:id", authenticated, staff, s.UpdateSite)
	router.Delete("/sites/:id", authenticated, admin, s.DeleteSite)
	router.Get("/sites/:id/credentials", authenticated, staff, s.GetCredentials)

	router.Post("/clients", authenticated, staff, s.CreateClient)
	router.Get("/clients", authenticated, staff, s.ListClients)
	router.Get("/clients/:id", authenticated, staff, s.GetClient)
	router.Post("/projects", authenticated, staff, s.CreateProject)
	router.Get("/projects", authenticated, staff, s.ListProjects)
}

func (s *Server) Health(c *fiber.Ctx) error {
	if err := s.pool.Ping(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

func idParam(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.ValidationError{
			Message: "invalid request",
			Fields:  []errs.FieldError{{Field: "id", Message: "must be a positive integer"}},
		}
	}
	return id, nil
}

func optionalUintQuery(c *fiber.Ctx, key string) (*uint64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, errs.ValidationError{
			Message: "invalid request",
			Fields:  []errs.FieldError{{Field: key, Message: "must be a positive integer"}},
		}
	}
	return &v, nil
}
