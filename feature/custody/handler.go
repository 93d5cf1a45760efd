package custody

import (
	"errors"

	"assetbot/core/audit"
	"assetbot/core/inventory"
	"assetbot/core/logger"
	"assetbot/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for custody operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the custody routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/custody")
	group.Post("/checkout", h.HandleCheckout)
	group.Post("/checkin", h.HandleCheckin)
	group.Post("/transfer", h.HandleTransfer)
}

type checkoutRequest struct {
	Asset  string `json:"asset"`
	UserID int    `json:"user_id"`
}

type transferRequest struct {
	Asset      string `json:"asset"`
	FromUserID int    `json:"from_user_id"`
	ToUserID   int    `json:"to_user_id"`
}

// HandleCheckout checks an asset out to a user.
// @Summary Checkout Asset
// @Description Assigns the scanned asset to a user and verifies the assignment took effect.
// @Tags custody
// @Accept json
// @Produce json
// @Param request body checkoutRequest true "Asset identifier and target user"
// @Success 200 {object} Outcome "Checkout outcome"
// @Failure 409 {object} map[string]interface{} "Already checked out"
// @Router /custody/checkout [post]
func (h *Handler) HandleCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	outcome, err := h.service.Checkout(c.Context(), actorFrom(c, req.UserID), req.Asset, req.UserID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(outcome)
}

// HandleCheckin returns an asset.
// @Summary Checkin Asset
// @Description Releases the scanned asset from its current assignee and restores availability.
// @Tags custody
// @Accept json
// @Produce json
// @Param request body checkoutRequest true "Asset identifier and acting user"
// @Success 200 {object} Outcome "Checkin outcome"
// @Router /custody/checkin [post]
func (h *Handler) HandleCheckin(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	outcome, err := h.service.Checkin(c.Context(), actorFrom(c, req.UserID), req.Asset, req.UserID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(outcome)
}

// HandleTransfer moves an asset between users.
// @Summary Transfer Asset
// @Description Reassigns an asset from its verified current holder to another user.
// @Tags custody
// @Accept json
// @Produce json
// @Param request body transferRequest true "Asset identifier, current holder and target user"
// @Success 200 {object} Outcome "Transfer outcome"
// @Router /custody/transfer [post]
func (h *Handler) HandleTransfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	outcome, err := h.service.Transfer(c.Context(), actorFrom(c, req.ToUserID), req.Asset, req.FromUserID, req.ToUserID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(outcome)
}

func actorFrom(c *fiber.Ctx, userID int) audit.Actor {
	return audit.Actor{UserID: userID, CorrelationID: rayid.FromCtx(c)}
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.service.log, c)

	var opErr *OperationError
	if errors.As(err, &opErr) {
		body := fiber.Map{"error": opErr.Message, "kind": string(opErr.Kind)}
		if opErr.Kind == ErrHeldByOther {
			body["transfer_available"] = opErr.TransferAvailable
			if opErr.Holder != nil {
				body["current_user"] = opErr.Holder.Name
				body["current_user_id"] = opErr.Holder.ID
			}
		}
		return c.Status(statusFor(opErr.Kind)).JSON(body)
	}

	var apiErr *inventory.APIError
	if errors.As(err, &apiErr) {
		l.Error("custody operation failed upstream", zap.Error(err))
		status := fiber.StatusBadGateway
		switch apiErr.Kind {
		case inventory.KindUnauthorized, inventory.KindForbidden:
			status = fiber.StatusBadGateway
		case inventory.KindNotFound:
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": apiErr.Message})
	}

	l.Error("custody operation failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(kind ErrorKind) int {
	switch kind {
	case ErrNotFound:
		return fiber.StatusNotFound
	case ErrAlreadyInState, ErrHeldByOther:
		return fiber.StatusConflict
	case ErrPreconditionFailed:
		return fiber.StatusUnprocessableEntity
	case ErrUpstreamWriteFailed:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
