package gallery

import (
	"context"
	"crypto/subtle"

	"gallery-manager/core/logger"
	"gallery-manager/core/middleware/auth"
	"gallery-manager/feature/gallery/webhook"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebhookSecretHeader is the header bucket notifications present.
const WebhookSecretHeader = "X-Webhook-Secret"

// Handler handles HTTP requests for the gallery.
type Handler struct {
	service *Service
	secret  string
	apiKey  string

	// dispatch runs event processing off the response path, so the
	// notification source gets its acknowledgment immediately. Tests swap
	// in a synchronous dispatcher.
	dispatch func(fn func())
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, cfg Config, apiKey string) *Handler {
	return &Handler{
		service:  service,
		secret:   cfg.WebhookSecret,
		apiKey:   apiKey,
		dispatch: func(fn func()) { go fn() },
	}
}

// RegisterRoutes registers the gallery routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/gallery")
	group.Get("/", h.HandleListGallery)
	group.Get("/:id", h.HandleGetMedia)
	group.Post("/events", h.HandleBucketEvent)

	admin := app.Group("/admin", auth.New(auth.Config{ApiKey: h.apiKey}))
	admin.Post("/reconcile", h.HandleReconcile)
}

// HandleListGallery returns all published media, oldest first.
// @Summary List gallery
// @Description List all currently published media records.
// @Tags gallery
// @Produce json
// @Success 200 {array} models.MediaRecord "Published media"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /gallery [get]
func (h *Handler) HandleListGallery(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	records, err := h.service.ListActive(c.Context())
	if err != nil {
		l.Error("Gallery listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(records)
}

// HandleGetMedia returns one media record by its permanent identifier.
// @Summary Get media
// @Description Look up a single media record by its 5-digit identifier.
// @Tags gallery
// @Produce json
// @Param id path string true "Media identifier (e.g. '04213')"
// @Success 200 {object} models.MediaRecord "Media record"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /gallery/{id} [get]
func (h *Handler) HandleGetMedia(c *fiber.Ctx) error {
	mediaID := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	rec, err := h.service.GetByID(c.Context(), mediaID)
	if err != nil {
		l.Error("Media lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if rec == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "media not found",
		})
	}

	return c.JSON(rec)
}

// HandleBucketEvent ingests an object-store change notification.
//
// The shared secret is checked before the body is even parsed, and the
// source is acknowledged before processing happens: a processing failure is
// the reconciliation job's problem, not the notification source's.
// @Summary Ingest bucket event
// @Description Apply an object-store create/remove notification to the catalog.
// @Tags gallery
// @Accept json
// @Produce json
// @Param X-Webhook-Secret header string true "Pre-shared webhook secret"
// @Success 200 {object} map[string]string "Accepted"
// @Failure 400 {object} map[string]string "Malformed payload"
// @Failure 401 {object} map[string]string "Invalid secret"
// @Router /gallery/events [post]
func (h *Handler) HandleBucketEvent(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if h.secret == "" {
		l.Warn("Bucket event rejected: webhook secret not configured")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "webhook secret not configured",
		})
	}
	provided := c.Get(WebhookSecretHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		l.Warn("Bucket event rejected: invalid webhook secret")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid webhook secret",
		})
	}

	events, err := webhook.Parse(c.Body())
	if err != nil {
		l.Warn("Bucket event rejected: unparseable payload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.dispatch(func() {
		// Detached from the request context: the acknowledgment below must
		// not cancel processing.
		h.service.ProcessEvents(context.Background(), events)
	})

	return c.JSON(fiber.Map{"status": "accepted"})
}

// HandleReconcile runs one full reconciliation pass synchronously.
// @Summary Run reconciliation
// @Description Diff the bucket against the catalog and converge the catalog onto it.
// @Tags admin
// @Produce json
// @Param X-API-Key header string true "Admin API key"
// @Success 200 {object} reconcile.Summary "Pass summary, or skipped status"
// @Failure 500 {object} map[string]string "Pass failed"
// @Router /admin/reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	summary, err := h.service.RunReconciliation(c.Context())
	if err != nil {
		l.Error("Reconciliation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if summary.Skipped {
		return c.JSON(fiber.Map{"status": "skipped"})
	}

	return c.JSON(summary)
}
