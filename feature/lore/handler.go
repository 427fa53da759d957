package lore

import (
	"errors"

	"lore-sync/core/logger"
	"lore-sync/core/lore"
	"lore-sync/core/normalize"
	"lore-sync/core/reconcile"
	"lore-sync/core/scheduler"
	"lore-sync/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for lore reconciliation.
type Handler struct {
	service     *Service
	batchSecret string
}

// NewHandler creates a new HTTP handler. A non-empty batchSecret is required in
// X-Batch-Secret on batch routes.
func NewHandler(service *Service, batchSecret string) *Handler {
	return &Handler{service: service, batchSecret: batchSecret}
}

// RegisterRoutes registers the lore routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/lore")
	group.Post("/normalize", h.HandleNormalize)
	group.Post("/batch/publish", h.HandleBatch(reconcile.ModePublish))
	group.Post("/batch/pull", h.HandleBatch(reconcile.ModePull))
	group.Post("/:category/schema", h.HandleEnsureSchema)
	group.Post("/:category/push", h.HandlePush)
	group.Post("/:category/pull", h.HandlePull)
}

// errorStatus maps an operation error to an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, scheduler.ErrBusy):
		return fiber.StatusConflict
	case errors.Is(err, normalize.ErrInvalidOptions):
		return fiber.StatusBadRequest
	}
	switch reconcile.Classify(err) {
	case reconcile.KindConfiguration:
		return fiber.StatusBadRequest
	case reconcile.KindRemoteCall:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) category(c *fiber.Ctx) (lore.Category, error) {
	return lore.ParseCategory(c.Params("category"))
}

// HandleEnsureSchema ensures the remote table of a category.
// @Summary Ensure Schema
// @Description Adds every mapped property missing from the category's remote table. Never deletes or retypes properties.
// @Tags lore
// @Produce json
// @Param category path string true "Category (characters, creatures, realms, magic, plots)"
// @Success 200 {object} reconcile.SchemaReport "Schema Report"
// @Failure 400 {object} map[string]string "Unknown category or missing table"
// @Failure 502 {object} map[string]string "Remote store failure"
// @Router /lore/{category}/schema [post]
func (h *Handler) HandleEnsureSchema(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	cat, err := h.category(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.service.EnsureSchema(c.Context(), cat)
	if err != nil {
		l.Error("Ensure schema failed", zap.String("category", string(cat)), zap.Error(err))
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if len(report.Conflicts) > 0 {
		l.Warn("Schema conflicts detected", zap.String("category", string(cat)), zap.Int("conflicts", len(report.Conflicts)))
	}
	return c.JSON(report)
}

// HandlePush publishes one category.
// @Summary Push Category
// @Description Creates, updates or leaves untouched the remote row of every local record of the category.
// @Tags lore
// @Produce json
// @Param category path string true "Category"
// @Param dry_run query boolean false "Count changes without writing"
// @Success 200 {object} reconcile.Result "Push Result"
// @Failure 400 {object} map[string]string "Unknown category"
// @Failure 409 {object} map[string]string "A sync cycle is running"
// @Router /lore/{category}/push [post]
func (h *Handler) HandlePush(c *fiber.Ctx) error {
	return h.runOne(c, reconcile.ModePublish)
}

// HandlePull pulls one category.
// @Summary Pull Category
// @Description Merges every remote row of the category into the local records.
// @Tags lore
// @Produce json
// @Param category path string true "Category"
// @Param dry_run query boolean false "Count changes without writing"
// @Success 200 {object} reconcile.Result "Pull Result"
// @Failure 400 {object} map[string]string "Unknown category"
// @Failure 409 {object} map[string]string "A sync cycle is running"
// @Router /lore/{category}/pull [post]
func (h *Handler) HandlePull(c *fiber.Ctx) error {
	return h.runOne(c, reconcile.ModePull)
}

func (h *Handler) runOne(c *fiber.Ctx, mode reconcile.Mode) error {
	l := logger.WithRayID(h.service.logger, c)

	cat, err := h.category(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	dryRun := c.QueryBool("dry_run", false)

	var res reconcile.Result
	if mode == reconcile.ModePublish {
		res, err = h.service.Push(c.Context(), cat, dryRun)
	} else {
		res, err = h.service.Pull(c.Context(), cat, dryRun)
	}
	if err != nil {
		l.Warn("Run rejected", zap.String("mode", string(mode)), zap.String("category", string(cat)), zap.Error(err))
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Run finished",
		zap.String("mode", string(mode)),
		zap.String("category", string(cat)),
		zap.Bool("dry_run", dryRun),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("failed", res.Failed),
	)
	if res.Fatal != "" {
		return c.Status(fiber.StatusInternalServerError).JSON(res)
	}
	return c.JSON(res)
}

// HandleNormalize normalizes raw documents.
// @Summary Normalize Raw Lore
// @Description Converts raw documents under root into canonical records and writes the requested outputs.
// @Tags lore
// @Accept json
// @Produce json
// @Param options body normalize.Options true "Normalization options"
// @Success 200 {object} normalize.Result "Normalization Result"
// @Failure 400 {object} map[string]string "Invalid options"
// @Router /lore/normalize [post]
func (h *Handler) HandleNormalize(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var opts normalize.Options
	if err := c.BodyParser(&opts); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}
	if cat, err := lore.ParseCategory(string(opts.Category)); err == nil {
		opts.Category = cat
	}

	res, err := h.service.Normalize(c.Context(), opts)
	if err != nil {
		l.Error("Normalize failed", zap.String("category", string(opts.Category)), zap.Error(err))
		return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	l.Info("Normalize finished",
		zap.String("category", string(res.Category)),
		zap.Int("count", res.Count),
		zap.Int("warnings", len(res.Warnings)),
	)
	return c.JSON(res)
}

// HandleBatch returns the handler of a batch route for mode.
// @Summary Run Batch
// @Description Runs publish or pull over every configured category, or the comma separated categories query. Requires X-Batch-Secret when a batch secret is configured.
// @Tags lore
// @Produce json
// @Param categories query string false "Comma separated categories"
// @Success 200 {object} scheduler.CycleReport "Cycle Report"
// @Failure 401 {object} map[string]string "Missing or wrong batch secret"
// @Failure 409 {object} map[string]string "A sync cycle is running"
// @Router /lore/batch/publish [post]
// @Router /lore/batch/pull [post]
func (h *Handler) HandleBatch(mode reconcile.Mode) fiber.Handler {
	guard := server.Config{BatchSecret: h.batchSecret}
	return func(c *fiber.Ctx) error {
		l := logger.WithRayID(h.service.logger, c)

		if !guard.BatchAllowed(c.Get(server.BatchSecretHeader)) {
			l.Warn("Batch rejected, bad secret", zap.String("mode", string(mode)))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or missing batch secret"})
		}

		var names []string
		if q := c.Query("categories"); q != "" {
			names = []string{q}
		}
		cats, err := lore.ParseCategories(names)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if len(names) == 0 {
			cats = nil
		}

		report, err := h.service.RunBatch(c.Context(), mode, cats)
		if err != nil {
			l.Warn("Batch rejected", zap.String("mode", string(mode)), zap.Error(err))
			return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(report)
	}
}
