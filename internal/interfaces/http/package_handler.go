package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/application/dto"
	"github.com/Henri-Funes/Vault-DTE/internal/application/packager"
	"github.com/Henri-Funes/Vault-DTE/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// PackageHandler descargas ZIP. La selección se valida antes de enviar cabeceras;
// después el ZIP se transmite a medida que se genera.
type PackageHandler struct {
	p   *packager.Packager
	log zerolog.Logger
}

// NewPackageHandler construye el handler.
func NewPackageHandler(p *packager.Packager, log zerolog.Logger) *PackageHandler {
	return &PackageHandler{p: p, log: log}
}

// Categories POST /api/package/categories {categories: []}
func (h *PackageHandler) Categories(c *fiber.Ctx) error {
	var req dto.PackageCategoriesRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidSelection))
	}
	if err := h.p.CheckCategories(&req); err != nil {
		return fail(c, err)
	}
	n, err := h.p.CountByCategories(c.UserContext(), req.Categories)
	if err != nil {
		return fail(c, err)
	}
	return h.stream(c, "backup-folders", n, func(ctx context.Context, w io.Writer) (*packager.Result, error) {
		return h.p.PackageByCategories(ctx, req.Categories, w)
	})
}

// Identifiers POST /api/package/identifiers {identifiers: []}
func (h *PackageHandler) Identifiers(c *fiber.Ctx) error {
	var req dto.PackageIdentifiersRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidSelection))
	}
	if err := h.p.CheckIdentifiers(&req); err != nil {
		return fail(c, err)
	}
	n, err := h.p.CountByIdentifiers(c.UserContext(), req.Identifiers)
	if err != nil {
		return fail(c, err)
	}
	return h.stream(c, "files", n, func(ctx context.Context, w io.Writer) (*packager.Result, error) {
		return h.p.PackageByIdentifiers(ctx, req.Identifiers, w)
	})
}

type packageFunc func(ctx context.Context, w io.Writer) (*packager.Result, error)

func (h *PackageHandler) stream(c *fiber.Ctx, prefix string, records int64, build packageFunc) error {
	name := fmt.Sprintf("%s-%d.zip", prefix, time.Now().UnixMilli())
	ctx := context.WithoutCancel(c.UserContext())
	h.log.Debug().Str("file", name).Int64("records", records).Msg("iniciando descarga ZIP")

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, contentDisposition("attachment", name))
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		// ya se enviaron las cabeceras: un error solo puede cortar el stream
		if _, err := build(ctx, w); err != nil {
			h.log.Error().Err(err).Str("file", name).Msg("ZIP interrumpido")
			_ = w.Flush()
			return
		}
		if err := w.Flush(); err != nil {
			h.log.Warn().Err(err).Str("file", name).Msg("cliente desconectado durante la descarga")
		}
	})
	return nil
}
