package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/domain"
)

// respondError traduce los errores de dominio al status y cuerpo de la API
// administrada. Los mensajes de los errores tipados (columna protegida,
// transición ilegal) van tal cual: son contrato hacia el consumidor.
func respondError(c *fiber.Ctx, err error) error {
	var typeSwitch *domain.TypeSwitchFailedError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrColumnProtected):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "COLUMN_PROTECTED", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateColumn):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_COLUMN", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrIllegalTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ILLEGAL_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrTokenExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.As(err, &typeSwitch):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "TYPE_SWITCH_FAILED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// respondPublicError traduce al contrato de la API pública: siempre
// {success:false, error}. Los textos congelados del caso de uso pasan tal
// cual; las fallas de infraestructura se esconden tras un mensaje genérico.
func respondPublicError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"
	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrTokenExpired):
		status, message = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status, message = fiber.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrIllegalTransition), errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrConflict):
		status, message = fiber.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		status, message = fiber.StatusBadRequest, err.Error()
	}
	return c.Status(status).JSON(dto.PublicErrorResponse{Success: false, Error: message})
}
