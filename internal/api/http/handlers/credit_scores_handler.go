package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lending-service/internal/api/dto"
	"github.com/spec-kit/lending-service/internal/auth"
	"github.com/spec-kit/lending-service/internal/service"
)

// CreditScoresHandler exposes score reads and the admin bulk job.
type CreditScoresHandler struct {
	scores *service.CreditScoreService
}

// NewCreditScoresHandler constructs handler.
func NewCreditScoresHandler(scoreService *service.CreditScoreService) *CreditScoresHandler {
	return &CreditScoresHandler{scores: scoreService}
}

// GetOwn handles GET /users/credit-score for the authenticated user.
func (h *CreditScoresHandler) GetOwn(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	record, err := h.scores.GetScore(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CreditScoreResponse{
		UserID:      record.UserID,
		Score:       record.Score,
		LastUpdated: record.LastUpdated,
	}})
}

// Recalculate handles POST /admin/credit-scores/:userId/recalculate.
func (h *CreditScoresHandler) Recalculate(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return fiber.NewError(http.StatusBadRequest, "user id required")
	}

	score, err := h.scores.Calculate(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"user_id": userID,
		"score":   score,
	}})
}

// RecalculateAll handles POST /admin/credit-scores/recalculate.
func (h *CreditScoresHandler) RecalculateAll(c *fiber.Ctx) error {
	report, err := h.scores.RecalculateAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}
