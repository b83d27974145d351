package rest

import (
	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/Builder-Lawyers/builder-admin/internal/domain/consts"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) CreateSite(c *fiber.Ctx) error {
	var req dto.CreateSiteRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	siteID, err := s.commands.CreateSite.Execute(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateSiteResponse{SiteID: siteID})
}

func (s *Server) ListSites(c *fiber.Ctx) error {
	clientID, err := optionalUintQuery(c, "clientId")
	if err != nil {
		return respondError(c, err)
	}

	var status *consts.SiteStatus
	if raw := c.Query("status"); raw != "" {
		st := consts.SiteStatus(raw)
		if !st.Valid() {
			return respondError(c, errs.ValidationError{
				Message: "invalid request",
				Fields:  []errs.FieldError{{Field: "status", Message: "unknown site status"}},
			})
		}
		status = &st
	}

	sites, err := s.commands.ListSites.Query(c.UserContext(), clientID, status)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(sites)
}

func (s *Server) GetSite(c *fiber.Ctx) error {
	siteID, err := idParam(c)
	if err != nil {
		return respondError(c, err)
	}

	site, err := s.commands.GetSite.Query(c.UserContext(), siteID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(site)
}

func (s *Server) UpdateSite(c *fiber.Ctx) error {
	siteID, err := idParam(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.UpdateSiteRequest
	if err = c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	site, err := s.commands.UpdateSite.Execute(c.UserContext(), siteID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(site)
}

func (s *Server) DeleteSite(c *fiber.Ctx) error {
	siteID, err := idParam(c)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.commands.DeleteSite.Execute(c.UserContext(), siteID); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.MessageResponse{Message: "Site deleted"})
}

func (s *Server) GetCredentials(c *fiber.Ctx) error {
	siteID, err := idParam(c)
	if err != nil {
		return respondError(c, err)
	}

	creds, err := s.commands.Credentials.Get(c.UserContext(), siteID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(creds)
}

func (s *Server) CheckDomain(c *fiber.Ctx) error {
	excludeID, err := optionalUintQuery(c, "excludeSiteId")
	if err != nil {
		return respondError(c, err)
	}
	var exclude uint64
	if excludeID != nil {
		exclude = *excludeID
	}

	resp, err := s.commands.CheckDomain.Query(c.UserContext(), c.Query("domain"), exclude)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
