package directory

import (
	"errors"

	"assetbot/core/inventory"
	"assetbot/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for directory lookups.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the directory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/directory")
	group.Get("/users/resolve", h.HandleResolveUser)
	group.Get("/users/:id/assets", h.HandleUserAssets)
	group.Get("/lookup/user-assets", h.HandleLookupUserAssets)
	group.Get("/lookup/assets/:identifier", h.HandleLookupAsset)
}

// HandleResolveUser resolves a free-text name to directory candidates.
// @Summary Resolve User
// @Description Matches a name query against the directory and returns the best candidate with alternates.
// @Tags directory
// @Produce json
// @Param q query string true "Name query"
// @Success 200 {object} Resolution "Best match and alternates"
// @Failure 404 {object} map[string]interface{} "No match"
// @Router /directory/users/resolve [get]
func (h *Handler) HandleResolveUser(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing query parameter 'q'"})
	}

	res, err := h.service.ResolveUser(c.Context(), query)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(res)
}

// HandleUserAssets lists the assets currently assigned to a user.
// @Summary User Assets
// @Description Scans the inventory for every asset assigned to the given user.
// @Tags directory
// @Produce json
// @Param id path int true "User id"
// @Success 200 {array} AssetView "Assigned assets"
// @Router /directory/users/{id}/assets [get]
func (h *Handler) HandleUserAssets(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}

	assets, err := h.service.AssetsAssignedTo(c.Context(), userID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"assets": assets, "total": len(assets)})
}

// HandleLookupUserAssets runs the operator lookup: fuzzy name match plus
// the matched user's equipment list.
// @Summary Lookup User Assets
// @Description Resolves a name fuzzily and lists the matched user's assigned equipment.
// @Tags directory
// @Produce json
// @Param name query string true "User name"
// @Success 200 {object} UserAssetReport "Match and equipment"
// @Router /directory/lookup/user-assets [get]
func (h *Handler) HandleLookupUserAssets(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing query parameter 'name'"})
	}

	report, err := h.service.LookupAssetsByUserName(c.Context(), name)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(report)
}

// HandleLookupAsset finds an asset by tag or inventory number.
// @Summary Lookup Asset
// @Description Finds a single asset by exact tag or derived inventory number.
// @Tags directory
// @Produce json
// @Param identifier path string true "Asset tag or inventory number"
// @Success 200 {object} AssetView "Asset with assignment info"
// @Router /directory/lookup/assets/{identifier} [get]
func (h *Handler) HandleLookupAsset(c *fiber.Ctx) error {
	identifier := c.Params("identifier")
	if identifier == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing asset identifier"})
	}

	asset, err := h.service.LookupAssetByNumber(c.Context(), identifier)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(asset)
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.service.log, c)

	var noMatch *ErrNoMatch
	if errors.As(err, &noMatch) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": noMatch.Error()})
	}

	var apiErr *inventory.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Kind == inventory.KindNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": apiErr.Message})
		}
		l.Error("directory lookup failed upstream", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": apiErr.Message})
	}

	l.Error("directory lookup failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
