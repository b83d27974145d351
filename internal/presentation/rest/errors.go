package rest

import (
	"errors"

	"github.com/Builder-Lawyers/builder-admin/internal/application/dto"
	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func respondError(c *fiber.Ctx, err error) error {
	var (
		unauthorizedErr errs.UnauthorizedError
		notFoundErr     errs.NotFoundError
		validationErr   errs.ValidationError
		conflictErr     errs.ConflictError
		integrityErr    errs.IntegrityError
		transactionErr  errs.TransactionError
	)

	switch {
	case errors.As(err, &unauthorizedErr):
		return unauthorized(c)
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: notFoundErr.Error()})
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: validationErr.Message, Fields: validationErr.Fields})
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ConflictResponse{
			Error:      conflictErr.Error(),
			Domain:     conflictErr.Domain,
			SiteID:     conflictErr.SiteID,
			ClientID:   conflictErr.ClientID,
			ClientName: conflictErr.ClientName,
		})
	case errors.As(err, &integrityErr):
		zap.S().Errorw("stored data is corrupt", "path", c.Path(), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "stored data is corrupt"})
	case errors.As(err, &transactionErr):
		zap.S().Errorw("transaction failed", "path", c.Path(), "op", transactionErr.Op, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to " + transactionErr.Op})
	}

	zap.S().Errorw("request failed", "path", c.Path(), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body: " + err.Error()})
}
