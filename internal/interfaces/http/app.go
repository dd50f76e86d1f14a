package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// NewApp crea la aplicación Fiber con el manejador de errores del sobre JSON,
// recuperación de pánicos y log de peticiones.
func NewApp(name string, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Second * 60,
		UnescapePath: true,
		ErrorHandler: fail,
		// sin WriteTimeout: los ZIP grandes se transmiten durante minutos
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))
	return app
}
