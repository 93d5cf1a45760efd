package people

import (
	"errors"
	"strings"

	"assetbot/core/audit"
	"assetbot/core/inventory"
	"assetbot/core/logger"
	"assetbot/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for people operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the people routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/people")
	group.Post("/signin", h.HandleSignIn)
	group.Post("/", h.HandleCreateUser)
	group.Get("/departments", h.HandleDepartments)
	group.Get("/vip/:employee_num", h.HandleVIPStatus)
	group.Get("/:id", h.HandleGetUser)
}

type signinRequest struct {
	Barcode string `json:"barcode"`
}

// HandleSignIn resolves a scanned badge to a user profile.
// @Summary Sign In
// @Description Resolves a scanned badge barcode to a user profile.
// @Tags people
// @Accept json
// @Produce json
// @Param request body signinRequest true "Scanned barcode"
// @Success 200 {object} Profile "Signed-in user"
// @Failure 404 {object} map[string]interface{} "Unknown badge"
// @Router /people/signin [post]
func (h *Handler) HandleSignIn(c *fiber.Ctx) error {
	var req signinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	profile, err := h.service.SignIn(c.Context(), rayid.FromCtx(c), req.Barcode)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(profile)
}

// HandleGetUser fetches one user by id.
// @Summary Get User
// @Tags people
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} Profile "User profile"
// @Router /people/{id} [get]
func (h *Handler) HandleGetUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}

	profile, err := h.service.UserByID(c.Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(profile)
}

// HandleVIPStatus reports the VIP flag for an employee number.
// @Summary VIP Status
// @Tags people
// @Produce json
// @Param employee_num path string true "Employee number"
// @Success 200 {object} map[string]interface{} "VIP flag and profile"
// @Router /people/vip/{employee_num} [get]
func (h *Handler) HandleVIPStatus(c *fiber.Ctx) error {
	employeeNum := strings.TrimSpace(c.Params("employee_num"))

	vip, profile, err := h.service.VIPStatus(c.Context(), employeeNum)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"vip": vip, "user": profile})
}

// HandleCreateUser creates a person record.
// @Summary Create User
// @Tags people
// @Accept json
// @Produce json
// @Param request body CreateUserInput true "New user data"
// @Success 201 {object} Profile "Created user"
// @Router /people [post]
func (h *Handler) HandleCreateUser(c *fiber.Ctx) error {
	var in CreateUserInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	actor := audit.Actor{CorrelationID: rayid.FromCtx(c)}
	profile, err := h.service.CreateUser(c.Context(), actor, in)
	if err != nil {
		if strings.HasPrefix(err.Error(), "missing required field") {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// HandleDepartments lists organizational units.
// @Summary List Departments
// @Tags people
// @Produce json
// @Success 200 {array} inventory.Department "Departments"
// @Router /people/departments [get]
func (h *Handler) HandleDepartments(c *fiber.Ctx) error {
	departments, err := h.service.Departments(c.Context())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"departments": departments, "total": len(departments)})
}

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.service.log, c)

	var notFound *ErrUserNotFound
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found."})
	}

	var apiErr *inventory.APIError
	if errors.As(err, &apiErr) {
		l.Error("people operation failed upstream", zap.Error(err))
		if apiErr.Kind == inventory.KindNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": apiErr.Message})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": apiErr.Message})
	}

	l.Error("people operation failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
