package rest

import (
	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) CompleteInstallation(c *fiber.Ctx) error {
	siteID, err := idParam(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.InstallationCredentials
	if len(c.Body()) > 0 {
		if err = c.BodyParser(&req); err != nil {
			return badBody(c, err)
		}
	}

	site, err := s.commands.CompleteInstallation.Execute(c.UserContext(), siteID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.CompleteInstallationResponse{
		Message: "Installation completed",
		Site:    site,
	})
}

func (s *Server) StartInstallation(c *fiber.Ctx) error {
	siteID, err := idParam(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.InstallationCredentials
	if len(c.Body()) > 0 {
		if err = c.BodyParser(&req); err != nil {
			return badBody(c, err)
		}
	}

	steps, err := s.commands.StartInstallation.Execute(c.UserContext(), siteID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.StartInstallationResponse{
		Message: "Installation started",
		Steps:   steps,
	})
}

func (s *Server) GetStepsStatus(c *fiber.Ctx) error {
	siteID, err := idParam(c)
	if err != nil {
		return respondError(c, err)
	}

	report, err := s.commands.GetStepsStatus.Query(c.UserContext(), siteID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(report)
}

func (s *Server) ListSteps(c *fiber.Ctx) error {
	siteID, err := idParam(c)
	if err != nil {
		return respondError(c, err)
	}

	steps, err := s.commands.ListSteps.Query(c.UserContext(), siteID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(steps)
}

func (s *Server) AdvanceStep(c *fiber.Ctx) error {
	siteID, err := idParam(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.AdvanceStepRequest
	if err = c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	step, err := s.commands.AdvanceStep.Execute(c.UserContext(), siteID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(step)
}
