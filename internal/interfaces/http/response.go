package http

import (
	"errors"
	"mime"

	"github.com/Henri-Funes/Vault-DTE/internal/application/dto"
	"github.com/Henri-Funes/Vault-DTE/internal/domain"
	"github.com/gofiber/fiber/v2"
)

// ok responde {success:true, data}.
func ok(c *fiber.Ctx, data any) error {
	return c.JSON(dto.Envelope{Success: true, Data: data})
}

// fail traduce un error a código HTTP y sobre {success:false, error}.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(dto.Envelope{Success: false, Error: err.Error()})
}

// StatusFor código HTTP de un error de dominio.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrRecordNotFound), errors.Is(err, domain.ErrBackingFileNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSelection), errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.As(err, &fe):
		return fe.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// contentDisposition arma la cabecera con el nombre escapado (comillas, no ASCII).
func contentDisposition(kind, filename string) string {
	if v := mime.FormatMediaType(kind, map[string]string{"filename": filename}); v != "" {
		return v
	}
	return kind
}
