package notion

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"lore-sync/core/remote"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, retries int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := remote.Config{Token: "secret", BaseURL: srv.URL, TimeoutSeconds: 5, MaxRetries: retries}
	return New(cfg, zap.NewNop(), WithBackoff(time.Millisecond))
}

func TestListRowsPaginates(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/databases/db1/query", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, APIVersion, r.Header.Get("Notion-Version"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if atomic.AddInt32(&calls, 1) == 1 {
			assert.Nil(t, body["start_cursor"])
			io.WriteString(w, `{"results":[{"id":"p1","last_edited_time":"2024-05-01T10:00:00.000Z","properties":{
				"Name":{"type":"title","title":[{"plain_text":"Ava "},{"plain_text":"Morn"}]},
				"Domains":{"type":"multi_select","multi_select":[{"name":"Unity"}]},
				"Age":{"type":"number","number":31},
				"Court":{"type":"select","select":null},
				"Created":{"type":"created_time","created_time":"2024-01-01T00:00:00.000Z"}
			}}],"has_more":true,"next_cursor":"c2"}`)
			return
		}
		assert.Equal(t, "c2", body["start_cursor"])
		io.WriteString(w, `{"results":[{"id":"p2","archived":true,"properties":{}},{"id":"p3","properties":{
			"Name":{"type":"title","title":[{"plain_text":"Bren"}]}}}],"has_more":false}`)
	}, 0)

	rows, err := c.ListRows(context.Background(), "db1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "p1", rows[0].ID)
	assert.Equal(t, 2024, rows[0].LastEdited.Year())
	assert.Equal(t, "Ava Morn", rows[0].Properties["Name"].Text)
	assert.Equal(t, []string{"Unity"}, rows[0].Properties["Domains"].Items)
	assert.Equal(t, 31.0, *rows[0].Properties["Age"].Number)
	assert.True(t, rows[0].Properties["Court"].IsEmpty())
	assert.NotContains(t, rows[0].Properties, "Created")
	assert.Equal(t, "p3", rows[1].ID)
}

func TestCreateRowPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pages", r.URL.Path)

		var body struct {
			Parent     map[string]string          `json:"parent"`
			Properties map[string]json.RawMessage `json:"properties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "db1", body.Parent["database_id"])
		assert.JSONEq(t, `{"title":[{"type":"text","text":{"content":"Ava"}}]}`, string(body.Properties["Name"]))
		assert.JSONEq(t, `{"multi_select":[]}`, string(body.Properties["Domains"]))
		assert.JSONEq(t, `{"select":{"name":"Sun Court"}}`, string(body.Properties["Court"]))
		assert.JSONEq(t, `{"checkbox":true}`, string(body.Properties["Alive"]))
		io.WriteString(w, `{"id":"new-page"}`)
	}, 0)

	id, err := c.CreateRow(context.Background(), "db1", map[string]remote.Value{
		"Name":    remote.TextValue(remote.TypeTitle, "Ava"),
		"Domains": remote.ListValue(remote.TypeMultiSelect, nil),
		"Court":   remote.TextValue(remote.TypeSelect, "Sun Court"),
		"Alive":   remote.CheckboxValue(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "new-page", id)
}

func TestRetriesRateLimits(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			io.WriteString(w, `{"code":"rate_limited","message":"slow down"}`)
			return
		}
		assert.Equal(t, http.MethodPatch, r.Method)
		io.WriteString(w, `{}`)
	}, 3)

	err := c.UpdateRow(context.Background(), "db1", "p1", map[string]remote.Value{"Age": remote.NumberValue(4)})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}, 2)

	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, remote.IsRetryable(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"code":"validation_error","message":"Name is not a property"}`)
	}, 3)

	_, err := c.GetSchema(context.Background(), "db1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation_error: Name is not a property")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSchemaAndCreateProperty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			io.WriteString(w, `{"properties":{"Name":{"type":"title"},"Realm":{"type":"select"}}}`)
		case http.MethodPatch:
			data, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"properties":{"Danger Level":{"select":{"options":[]}}}}`, string(data))
			io.WriteString(w, `{}`)
		}
	}, 0)
	ctx := context.Background()

	schema, err := c.GetSchema(ctx, "db1")
	require.NoError(t, err)
	assert.Equal(t, remote.Schema{"Name": remote.TypeTitle, "Realm": remote.TypeSelect}, schema)

	require.NoError(t, c.CreateProperty(ctx, "db1", "Danger Level", remote.TypeSelect))
	err = c.CreateProperty(ctx, "db1", "Allies", remote.TypeRelation)
	assert.Error(t, err)
}

func TestTextChunks(t *testing.T) {
	long := strings.Repeat("é", maxTextChunk+5)
	chunks := textChunks(long)
	require.Len(t, chunks, 2)
	assert.Empty(t, textChunks(""))
}

func TestHonoursRetryAfter(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `{}`)
	}, 2)

	start := time.Now()
	require.NoError(t, c.Ping(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCancelledWhileBackingOff(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}, 5)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := c.Ping(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, remote.IsRetryable(err))
	assert.Less(t, time.Since(start), 5*time.Second)
}
