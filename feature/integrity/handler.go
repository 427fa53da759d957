package integrity

import (
	"lore-sync/core/logger"
	"lore-sync/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.SchemaReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the health and integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/records", h.HandleRecordsCheck)
	group.Get("/schema", h.HandleSchemaCheck)
}

// HandleHealth reports whether the remote store is reachable.
// @Summary Health
// @Description Pings the remote store and reports the round trip latency.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.RemoteReport "Reachable"
// @Failure 503 {object} checks.RemoteReport "Unreachable"
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	rep := h.service.CheckRemote(c.Context())
	if !rep.Reachable {
		logger.WithRayID(h.service.logger, c).Warn("Remote store unreachable", zap.String("error", rep.Error))
		return c.Status(fiber.StatusServiceUnavailable).JSON(rep)
	}
	return c.JSON(rep)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs every check (Remote, Structure, Records, Schema) in one report.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	report["remote"] = h.service.CheckRemote(ctx)

	if missing, err := h.service.CheckStructure(ctx); err != nil {
		report["structure"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = map[string]interface{}{"status": "ok", "missing": missing}
	}

	report["records"] = h.service.CheckRecords(ctx)

	schema := h.service.CheckSchema(ctx)
	if !schema.Matched {
		l.Warn("Schema drift detected")
	}
	report["schema"] = schema

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes structure.
// @Summary Check Structure
// @Description Checks that the lore store has a location for every category. Optionally creates missing ones.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Fix missing locations"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing locations detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing locations")
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleRecordsCheck summarizes local records.
// @Summary Check Records
// @Description Counts the local records of every category and lists the ones not yet linked to a remote row.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]checks.RecordsReport "Records Report"
// @Router /integrity/records [get]
func (h *Handler) HandleRecordsCheck(c *fiber.Ctx) error {
	return c.JSON(h.service.CheckRecords(c.Context()))
}

// HandleSchemaCheck reports schema drift.
// @Summary Check Schema Drift
// @Description Compares every remote table with its mapping without changing anything.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	return c.JSON(h.service.CheckSchema(c.Context()))
}
