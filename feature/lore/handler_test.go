package lore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lore-sync/core/lore"
	"lore-sync/core/normalize"
	"lore-sync/core/reconcile"
	"lore-sync/core/remote"
	"lore-sync/core/remote/memory"
	"lore-sync/core/scheduler"
	"lore-sync/core/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	app   *fiber.App
	tr    *memory.Transport
	store *lore.MemoryStore
	sched *scheduler.Scheduler
}

func setupTestApp(t *testing.T, batchSecret string) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	tr := memory.New()
	tables := reconcile.TableMap{}
	for _, c := range lore.AllCategories {
		tables[c] = "tbl_" + string(c)
		tr.CreateTable(tables[c], nil)
	}
	delete(tables, lore.Plots)

	store := lore.NewMemoryStore()
	engine := reconcile.NewEngine(tr, tables, reconcile.DefaultRegistry(), logger)
	orch := reconcile.NewOrchestrator(engine, store, logger, reconcile.BatchOptions{})
	sched := scheduler.New(scheduler.Config{}, orch, nil, logger)
	svc := NewService(orch, normalize.NewEngine(store, nil, logger), sched, logger)

	app := fiber.New()
	NewHandler(svc, batchSecret).RegisterRoutes(app)
	return &testEnv{app: app, tr: tr, store: store, sched: sched}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func post(path string) *http.Request {
	return httptest.NewRequest("POST", path, nil)
}

func TestHandleEnsureSchema(t *testing.T) {
	env := setupTestApp(t, "")

	status, body := env.do(t, post("/lore/characters/schema"))
	require.Equal(t, 200, status)
	assert.Equal(t, "tbl_characters", body["table_id"])
	assert.NotEmpty(t, body["added"])

	status, body = env.do(t, post("/lore/character/schema"))
	require.Equal(t, 200, status, "singular names are accepted")
	assert.Empty(t, body["added"])
}

func TestHandleEnsureSchemaErrors(t *testing.T) {
	env := setupTestApp(t, "")

	status, _ := env.do(t, post("/lore/spells/schema"))
	assert.Equal(t, 400, status)

	status, body := env.do(t, post("/lore/plots/schema"))
	assert.Equal(t, 400, status)
	assert.Contains(t, body["error"], "no remote table")

	env.tr.FailWhen(func(op memory.Op, _ string, _ map[string]remote.Value) error {
		if op == memory.OpGetSchema {
			return &remote.CallError{Op: string(op), StatusCode: 503, Retryable: true, Err: assert.AnError}
		}
		return nil
	})
	status, _ = env.do(t, post("/lore/magic/schema"))
	assert.Equal(t, 502, status)
}

func TestHandlePushAndPull(t *testing.T) {
	env := setupTestApp(t, "")
	env.store.Put(lore.Characters, lore.Record{"id": "ava", "name": "Ava"})

	status, body := env.do(t, post("/lore/characters/push?dry_run=true"))
	require.Equal(t, 200, status)
	assert.EqualValues(t, 1, body["created"])
	assert.Zero(t, env.tr.Calls(memory.OpCreateRow))

	status, body = env.do(t, post("/lore/characters/push"))
	require.Equal(t, 200, status)
	assert.EqualValues(t, 1, body["created"])
	assert.Len(t, env.tr.Rows("tbl_characters"), 1)
	assert.NotEmpty(t, env.store.Records(lore.Characters)[0].RemoteID())

	status, body = env.do(t, post("/lore/characters/pull"))
	require.Equal(t, 200, status)
	assert.EqualValues(t, 1, body["unchanged"])
}

func TestHandlePushMissingTableIsFatal(t *testing.T) {
	env := setupTestApp(t, "")
	env.store.Put(lore.Plots, lore.Record{"name": "The Long Night"})

	status, body := env.do(t, post("/lore/plots/push"))
	assert.Equal(t, 500, status)
	assert.Contains(t, body["fatal"], "no remote table")
}

func TestHandlePushWhileCycleRunning(t *testing.T) {
	env := setupTestApp(t, "")
	env.store.Put(lore.Characters, lore.Record{"name": "Ava"})

	release := make(chan struct{})
	env.tr.FailWhen(func(op memory.Op, _ string, _ map[string]remote.Value) error {
		if op == memory.OpGetSchema {
			<-release
		}
		return nil
	})
	require.True(t, env.sched.Trigger(scheduler.TriggerManual, reconcile.ModePublish))
	require.Eventually(t, func() bool { return env.sched.State() == scheduler.StateRunning }, time.Second, 5*time.Millisecond)

	status, body := env.do(t, post("/lore/characters/push"))
	assert.Equal(t, 409, status)
	assert.Contains(t, body["error"], "already running")

	status, _ = env.do(t, post("/lore/batch/pull"))
	assert.Equal(t, 409, status)

	close(release)
	require.Eventually(t, func() bool { return env.sched.State() == scheduler.StateIdle }, 2*time.Second, 5*time.Millisecond)
}

func TestHandleBatch(t *testing.T) {
	env := setupTestApp(t, "")
	env.store.Put(lore.Characters, lore.Record{"name": "Ava"})
	env.store.Put(lore.Magic, lore.Record{"name": "Glamour"})

	status, body := env.do(t, post("/lore/batch/publish"))
	require.Equal(t, 200, status)
	assert.Equal(t, "manual", body["trigger"])
	summaries := body["summaries"].(map[string]any)
	publish := summaries["publish"].(map[string]any)
	assert.EqualValues(t, 2, publish["created"])
	assert.Equal(t, []any{"plots"}, publish["fatal_categories"])

	status, body = env.do(t, post("/lore/batch/pull?categories=magic"))
	require.Equal(t, 200, status)
	assert.Equal(t, []any{"magic"}, body["categories"])

	status, _ = env.do(t, post("/lore/batch/pull?categories=spells"))
	assert.Equal(t, 400, status)
}

func TestHandleBatchSecret(t *testing.T) {
	env := setupTestApp(t, "s3cret")

	status, _ := env.do(t, post("/lore/batch/publish"))
	assert.Equal(t, 401, status)

	req := post("/lore/batch/publish")
	req.Header.Set(server.BatchSecretHeader, "wrong")
	status, _ = env.do(t, req)
	assert.Equal(t, 401, status)

	req = post("/lore/batch/publish")
	req.Header.Set(server.BatchSecretHeader, "s3cret")
	status, _ = env.do(t, req)
	assert.Equal(t, 200, status)

	status, _ = env.do(t, post("/lore/magic/push"))
	assert.Equal(t, 200, status, "single category runs need only the API key")
}

func TestHandleNormalize(t *testing.T) {
	env := setupTestApp(t, "")
	require.NoError(t, env.store.WriteFile(context.Background(), "raw/creatures.json", json.RawMessage(
		`{"creatures": {"beasts": {"wisp": {"type": "spirit", "location": "the vale"}}}}`)))

	req := httptest.NewRequest("POST", "/lore/normalize",
		strings.NewReader(`{"root": "raw/", "category": "creature", "split": true, "index": true}`))
	req.Header.Set("Content-Type", "application/json")
	status, body := env.do(t, req)
	require.Equal(t, 200, status)
	assert.Equal(t, "creatures", body["category"])
	assert.EqualValues(t, 1, body["count"])

	_, ok := env.store.File("creatures/formatted/_index.json")
	assert.True(t, ok)
}

func TestHandleNormalizeBadRequest(t *testing.T) {
	env := setupTestApp(t, "")

	req := httptest.NewRequest("POST", "/lore/normalize", strings.NewReader(`{"category": "magic"}`))
	req.Header.Set("Content-Type", "application/json")
	status, _ := env.do(t, req)
	assert.Equal(t, 400, status, "root is required")

	req = httptest.NewRequest("POST", "/lore/normalize", strings.NewReader(`{"root": "raw/", "category": "spells"}`))
	req.Header.Set("Content-Type", "application/json")
	status, _ = env.do(t, req)
	assert.Equal(t, 400, status)

	req = httptest.NewRequest("POST", "/lore/normalize", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	status, _ = env.do(t, req)
	assert.Equal(t, 400, status)
}
