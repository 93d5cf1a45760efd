package agreement

import (
	"errors"
	"io"

	"assetbot/core/audit"
	"assetbot/core/inventory"
	"assetbot/core/logger"
	"assetbot/core/middleware/rayid"
	"assetbot/feature/people"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for loan agreements.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the agreement routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/agreements")
	group.Post("/", h.HandleSubmit)
	group.Get("/", h.HandleHistory)
	group.Get("/:id/summary", h.HandleSummary)
}

type submitRequest struct {
	CoordinatorID int `json:"coordinator_id"`
	SubmitInput
}

// HandleSubmit submits a loan agreement.
// @Summary Submit Loan Agreement
// @Description Validates the coordinator's VIP access, checks out the listed equipment to the borrower and journals the agreement.
// @Tags agreements
// @Accept json
// @Produce json
// @Param request body submitRequest true "Agreement form"
// @Success 200 {object} Receipt "Submission receipt"
// @Failure 403 {object} map[string]interface{} "VIP access required"
// @Router /agreements [post]
func (h *Handler) HandleSubmit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	actor := audit.Actor{UserID: req.CoordinatorID, CorrelationID: rayid.FromCtx(c)}
	receipt, err := h.service.Submit(c.Context(), actor, req.SubmitInput)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(receipt)
}

// HandleHistory lists recent agreements.
// @Summary List Loan Agreements
// @Tags agreements
// @Produce json
// @Param limit query int false "Row limit"
// @Success 200 {array} models.LoanAgreement "Journal rows"
// @Router /agreements [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	rows, err := h.service.History(c.Context(), c.QueryInt("limit"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"agreements": rows, "total": len(rows)})
}

// HandleSummary streams the archived plain-text summary of an agreement.
// @Summary Get Agreement Summary
// @Tags agreements
// @Produce plain
// @Param id path string true "Agreement id"
// @Success 200 {string} string "Summary text"
// @Router /agreements/{id}/summary [get]
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	obj, err := h.service.Summary(c.Context(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		return h.writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Send(body)
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.service.log, c)

	var denied *ErrAccessDenied
	if errors.As(err, &denied) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": denied.Reason})
	}

	var invalid *ErrInvalidInput
	if errors.As(err, &invalid) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": invalid.Reason})
	}

	var notFound *people.ErrUserNotFound
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found."})
	}

	var apiErr *inventory.APIError
	if errors.As(err, &apiErr) {
		l.Error("agreement operation failed upstream", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": apiErr.Message})
	}

	l.Error("agreement operation failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
