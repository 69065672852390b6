package server

import (
	"context"
	"log/slog"

	"fieldbot/app/config"
	"fieldbot/app/model"
	"fieldbot/app/service/learning"
	"fieldbot/app/service/orchestrator"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

type Service struct {
	cfg      *config.Config
	orch     *orchestrator.Service
	learning *learning.Service
	app      *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		orch:     do.MustInvoke[*orchestrator.Service](di),
		learning: do.MustInvoke[*learning.Service](di),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s.app.Get("/health", s.handleHealth)
	s.app.Post("/api/v1/turn", s.handleTurn)
	s.app.Post("/api/v1/learn", s.handleLearn)

	return s, nil
}

func (s *Service) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Service) handleTurn(c *fiber.Ctx) error {
	var req orchestrator.TurnRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ConversationID == "" || req.Message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "conversation_id and message are required")
	}

	result := s.orch.HandleTurn(c.Context(), req)
	return c.JSON(result)
}

// handleLearn runs a learning batch synchronously. Ops entry point for
// backfills, bypasses the dispatch queue.
func (s *Service) handleLearn(c *fiber.Ctx) error {
	var req struct {
		ConversationID string                    `json:"conversation_id"`
		Interactions   []model.InteractionRecord `json:"interactions"`
		Feedback       *model.FeedbackRecord     `json:"feedback"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ConversationID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "conversation_id is required")
	}

	result := s.learning.Learn(req.ConversationID, req.Interactions, req.Feedback)
	return c.JSON(result)
}

func (s *Service) Run(_ context.Context) error {
	slog.Info("HTTP API listening", "addr", s.cfg.Server.Listen)
	return s.app.Listen(s.cfg.Server.Listen)
}

func (s *Service) Close() error {
	return s.app.Shutdown()
}
