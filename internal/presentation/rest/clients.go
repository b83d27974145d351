package rest

import (
	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) CreateClient(c *fiber.Ctx) error {
	var req dto.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	client, err := s.commands.CreateClient.Execute(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(client)
}

func (s *Server) ListClients(c *fiber.Ctx) error {
	clients, err := s.commands.GetClients.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(clients)
}

func (s *Server) GetClient(c *fiber.Ctx) error {
	clientID, err := idParam(c)
	if err != nil {
		return respondError(c, err)
	}

	client, err := s.commands.GetClients.Get(c.UserContext(), clientID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(client)
}

func (s *Server) CreateProject(c *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	project, err := s.commands.CreateProject.Execute(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

func (s *Server) ListProjects(c *fiber.Ctx) error {
	clientID, err := optionalUintQuery(c, "clientId")
	if err != nil {
		return respondError(c, err)
	}

	projects, err := s.commands.GetClients.ListProjects(c.UserContext(), clientID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(projects)
}
