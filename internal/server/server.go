// Package server exposes generation over HTTP.
package server

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Lumos-Labs-HQ/mockforge/internal/config"
	"github.com/Lumos-Labs-HQ/mockforge/internal/generator"
	"github.com/Lumos-Labs-HQ/mockforge/internal/schema"
	"github.com/Lumos-Labs-HQ/mockforge/template"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// MaxCount caps the number of records one request may ask for.
const MaxCount = 10000

type Server struct {
	app  *fiber.App
	opts generator.Options
	port int
}

func New(cfg *config.Config) (*Server, error) {
	opts, err := cfg.GeneratorOptions()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "mockforge",
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	server := &Server{
		app:  app,
		opts: opts,
		port: cfg.Server.Port,
	}

	server.setupRoutes()
	return server, nil
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())

	s.app.Get("/health", s.handleHealth)
	s.app.Get("/schema/default", s.handleDefaultSchema)
	s.app.Post("/generate", s.handleGenerate)
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	port := FindAvailablePort(s.port)
	if port != s.port {
		color.Yellow("⚠️  Port %d is in use, using port %d instead", s.port, port)
		s.port = port
	}

	color.Cyan("🚀 mockforge API listening on http://localhost:%d", s.port)
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleDefaultSchema(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(template.DefaultSchemaJSON)
}

// handleGenerate answers {"schema": {...}, "count": N} with the batch. A
// "seed" query parameter makes the response reproducible.
func (s *Server) handleGenerate(c *fiber.Ctx) error {
	req, err := schema.DecodeRequest(c.Body())
	if err != nil {
		return JSONError(c, statusFor(err), err.Error())
	}
	if req.Count > MaxCount {
		return JSONError(c, fiber.StatusBadRequest, fmt.Sprintf("count must not exceed %d, got %d", MaxCount, req.Count))
	}

	opts := s.opts
	if raw := c.Query("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return JSONError(c, fiber.StatusBadRequest, fmt.Sprintf("seed must be an integer, got %q", raw))
		}
		opts.Seed = seed
	}

	batch, err := generator.New(opts).Batch(c.UserContext(), req.Schema, req.Count)
	if err != nil {
		return JSONError(c, statusFor(err), err.Error())
	}
	return c.JSON(batch)
}

// statusFor maps a generation error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, schema.ErrSchema), errors.Is(err, schema.ErrUnsupportedType):
		return fiber.StatusBadRequest
	case errors.Is(err, generator.ErrUniquenessExhausted):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}
