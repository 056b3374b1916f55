package gallery

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"gallery-manager/core/middleware/auth"
	"gallery-manager/core/storage/mocks"
	"gallery-manager/feature/gallery/catalog"
	"gallery-manager/feature/gallery/models"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupApp(t *testing.T, client *mocks.Client) (*fiber.App, *catalog.Store) {
	t.Helper()

	svc, store := setupService(t, client)
	handler := NewHandler(svc, testConfig(), "admin-key")
	// Process synchronously so assertions see the outcome.
	handler.dispatch = func(fn func()) { fn() }

	app := fiber.New()
	handler.RegisterRoutes(app)
	return app, store
}

func TestHandleListGallery(t *testing.T) {
	app, store := setupApp(t, new(mocks.Client))
	ctx := context.Background()

	assert.NoError(t, store.Insert(ctx, &models.MediaRecord{
		MediaID: "00001", OriginalKey: "gallery/a.jpg", URL: "u",
		MediaType: models.MediaTypeImage, IsActive: true,
	}))
	assert.NoError(t, store.Insert(ctx, &models.MediaRecord{
		MediaID: "00002", OriginalKey: "gallery/gone.jpg", URL: "u",
		MediaType: models.MediaTypeImage, IsActive: false,
	}))

	resp, err := app.Test(httptest.NewRequest("GET", "/gallery/", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var records []models.MediaRecord
	assert.NoError(t, json.Unmarshal(body, &records))
	assert.Len(t, records, 1)
	assert.Equal(t, "00001", records[0].MediaID)
}

func TestHandleGetMedia(t *testing.T) {
	app, store := setupApp(t, new(mocks.Client))

	assert.NoError(t, store.Insert(context.Background(), &models.MediaRecord{
		MediaID: "00042", OriginalKey: "gallery/a.jpg", URL: "u",
		MediaType: models.MediaTypeImage, IsActive: true,
	}))

	t.Run("Found", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/gallery/00042", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var rec models.MediaRecord
		assert.NoError(t, json.Unmarshal(body, &rec))
		assert.Equal(t, "gallery/a.jpg", rec.OriginalKey)
	})

	t.Run("NotFound", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/gallery/99999", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestHandleBucketEvent(t *testing.T) {
	t.Run("InvalidSecret", func(t *testing.T) {
		app, store := setupApp(t, new(mocks.Client))

		req := httptest.NewRequest("POST", "/gallery/events",
			strings.NewReader(`{"key": "gallery/a.jpg"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(WebhookSecretHeader, "wrong")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		// Rejected before any processing.
		states, err := store.KeyStates(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, states)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		app, _ := setupApp(t, new(mocks.Client))

		req := httptest.NewRequest("POST", "/gallery/events", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(WebhookSecretHeader, "hook-secret")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("CreatedEvent", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("StatObject", mock.Anything, "gallery", mock.Anything, mock.Anything).
			Return(minio.ObjectInfo{Size: 64, ContentType: "image/png"}, nil)
		app, store := setupApp(t, client)

		req := httptest.NewRequest("POST", "/gallery/events",
			strings.NewReader(`{"key": "d%2Bfoo.png", "eventName": "s3:ObjectCreated:Put"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(WebhookSecretHeader, "hook-secret")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		// The stored key is the decoded form.
		rec, err := store.FindByKey(context.Background(), "d+foo.png")
		assert.NoError(t, err)
		assert.NotNil(t, rec)
		assert.True(t, rec.IsActive)
	})

	t.Run("BatchedRemoveEvent", func(t *testing.T) {
		app, store := setupApp(t, new(mocks.Client))
		ctx := context.Background()

		assert.NoError(t, store.Insert(ctx, &models.MediaRecord{
			MediaID: "00009", OriginalKey: "gallery/a.jpg", URL: "u",
			MediaType: models.MediaTypeImage, IsActive: true,
		}))

		body := `{"Records": [{"eventName": "s3:ObjectRemoved:Delete", "s3": {"object": {"key": "gallery/a.jpg"}}}]}`
		req := httptest.NewRequest("POST", "/gallery/events", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(WebhookSecretHeader, "hook-secret")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		rec, err := store.FindByKey(ctx, "gallery/a.jpg")
		assert.NoError(t, err)
		assert.False(t, rec.IsActive)
		assert.Equal(t, "00009", rec.MediaID)
	})
}

func TestHandleReconcile(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "gallery", mock.Anything).
		Return(func(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
			ch := make(chan minio.ObjectInfo, 2)
			ch <- minio.ObjectInfo{Key: "gallery/a.jpg"}
			ch <- minio.ObjectInfo{Key: "gallery/skip.txt"}
			close(ch)
			return ch
		})

	app, store := setupApp(t, client)

	t.Run("Unauthorized", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("POST", "/admin/reconcile", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Authorized", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/admin/reconcile", nil)
		req.Header.Set(auth.HeaderName, "admin-key")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var summary map[string]any
		assert.NoError(t, json.Unmarshal(body, &summary))
		assert.EqualValues(t, 1, summary["created"])

		rec, err := store.FindByKey(context.Background(), "gallery/a.jpg")
		assert.NoError(t, err)
		assert.NotNil(t, rec)
	})
}
