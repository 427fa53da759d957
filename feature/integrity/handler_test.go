package integrity

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lore-sync/core/lore"
	"lore-sync/core/reconcile"
	"lore-sync/core/remote"
	"lore-sync/core/remote/memory"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *memory.Transport, string) {
	t.Helper()
	root := t.TempDir()
	tr := memory.New()
	tr.CreateTable("tbl_characters", nil)
	tables := reconcile.TableMap{lore.Characters: "tbl_characters"}
	schema := reconcile.NewSchemaManager(tr, tables, reconcile.DefaultRegistry(), zap.NewNop())
	store := lore.NewFSStore(root, zap.NewNop())

	svc := NewService(tr, store, schema, []lore.Category{lore.Characters, lore.Magic}, time.Second, zap.NewNop())
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app, tr, root
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleHealth(t *testing.T) {
	app, tr, _ := setupTestApp(t)

	status, body := getJSON(t, app, "/health")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["reachable"])
	assert.Contains(t, body, "latency_ms")

	tr.FailWhen(func(op memory.Op, _ string, _ map[string]remote.Value) error {
		return errors.New("invalid token")
	})
	status, body = getJSON(t, app, "/health")
	assert.Equal(t, 503, status)
	assert.Equal(t, false, body["reachable"])
	assert.Contains(t, body["error"], "invalid token")
}

func TestHandleStructureCheck(t *testing.T) {
	app, _, root := setupTestApp(t)

	status, body := getJSON(t, app, "/integrity/structure")
	require.Equal(t, 200, status)
	assert.Equal(t, "checked", body["status"])
	assert.Len(t, body["missing"], 2)

	status, body = getJSON(t, app, "/integrity/structure?fix=true")
	require.Equal(t, 200, status)
	assert.Equal(t, "fixed", body["status"])
	assert.DirExists(t, filepath.Join(root, "magic", "formatted"))

	_, body = getJSON(t, app, "/integrity/structure")
	assert.Empty(t, body["missing"])
}

func TestHandleRecordsCheck(t *testing.T) {
	app, _, root := setupTestApp(t)
	dir := filepath.Join(root, "characters", "formatted")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Ava.json"), []byte(`{"id":"ava","name":"Ava"}`), 0o644))

	status, body := getJSON(t, app, "/integrity/records")
	require.Equal(t, 200, status)
	chars := body["characters"].(map[string]any)
	assert.EqualValues(t, 1, chars["count"])
	assert.Equal(t, []any{"Ava"}, chars["unstamped"])
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _, _ := setupTestApp(t)

	status, body := getJSON(t, app, "/integrity/schema")
	require.Equal(t, 200, status)
	assert.Equal(t, false, body["matched"])
	cats := body["categories"].(map[string]any)
	assert.Equal(t, "drift", cats["characters"].(map[string]any)["status"])
	assert.Equal(t, "unconfigured", cats["magic"].(map[string]any)["status"])
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, _, _ := setupTestApp(t)

	status, body := getJSON(t, app, "/integrity")
	require.Equal(t, 200, status)
	for _, key := range []string{"remote", "structure", "records", "schema"} {
		assert.Contains(t, body, key)
	}
}
