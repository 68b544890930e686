package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lending-service/internal/api/dto"
	"github.com/spec-kit/lending-service/internal/domain"
	"github.com/spec-kit/lending-service/internal/service"
)

// ServicingHandler exposes the back-office mutation endpoints for loans,
// payments, and reputation snapshots. These are the write paths the
// score triggers observe.
type ServicingHandler struct {
	loans       *service.LoanService
	payments    *service.PaymentService
	reputations *service.ReputationService
}

// NewServicingHandler constructs handler.
func NewServicingHandler(loans *service.LoanService, payments *service.PaymentService, reputations *service.ReputationService) *ServicingHandler {
	return &ServicingHandler{loans: loans, payments: payments, reputations: reputations}
}

// CreateLoan handles POST /admin/loans.
func (h *ServicingHandler) CreateLoan(c *fiber.Ctx) error {
	var req dto.LoanCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.UserID == "" {
		return fiber.NewError(http.StatusBadRequest, "user_id required")
	}

	loan, err := h.loans.CreateLoan(c.UserContext(), service.LoanCreateInput{
		UserID: req.UserID,
		Amount: req.Amount,
		Status: domain.LoanStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": loan})
}

// UpdateLoanStatus handles PATCH /admin/loans/:id/status.
func (h *ServicingHandler) UpdateLoanStatus(c *fiber.Ctx) error {
	var req dto.LoanStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Status == "" {
		return fiber.NewError(http.StatusBadRequest, "status required")
	}

	loan, err := h.loans.UpdateLoanStatus(c.UserContext(), c.Params("id"), domain.LoanStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": loan})
}

// RecordPayment handles POST /admin/payments.
func (h *ServicingHandler) RecordPayment(c *fiber.Ctx) error {
	var req dto.PaymentRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.LoanID == "" {
		return fiber.NewError(http.StatusBadRequest, "loan_id required")
	}

	payment, err := h.payments.RecordPayment(c.UserContext(), service.PaymentRecordInput{
		LoanID: req.LoanID,
		UserID: req.UserID,
		Amount: req.Amount,
		Status: domain.PaymentStatus(req.Status),
		PaidAt: req.PaidAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": payment})
}

// UpdatePaymentStatus handles PATCH /admin/payments/:id/status.
func (h *ServicingHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	var req dto.PaymentStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Status == "" {
		return fiber.NewError(http.StatusBadRequest, "status required")
	}

	payment, err := h.payments.UpdatePaymentStatus(c.UserContext(), c.Params("id"), domain.PaymentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": payment})
}

// UpsertReputation handles PUT /admin/reputations.
func (h *ServicingHandler) UpsertReputation(c *fiber.Ctx) error {
	var req dto.ReputationUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.UserID == "" {
		return fiber.NewError(http.StatusBadRequest, "user_id required")
	}

	rep, err := h.reputations.UpsertReputation(c.UserContext(), service.ReputationInput{
		UserID:          req.UserID,
		ReputationScore: req.ReputationScore,
		Trend:           domain.ReputationTrend(req.Trend),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rep})
}
