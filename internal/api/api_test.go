package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/documentiulia/docvault/internal/server"
	"github.com/documentiulia/docvault/pkg/docstore"
	"github.com/documentiulia/docvault/pkg/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.ModelsToAutoMigrate()...))

	srv := server.Server{
		DB:     db,
		Store:  docstore.New(db),
		Logger: hclog.NewNullLogger(),
	}
	ts := httptest.NewServer(NewMux(srv))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, user, body string, out any) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if user != "" {
		req.Header.Set("X-User-Id", user)
		req.Header.Set("X-Tenant-Id", "tenant-1")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestDocumentsAPI(t *testing.T) {
	ts := newTestServer(t)

	t.Run("requires identity headers", func(t *testing.T) {
		resp := doJSON(t, ts, "GET", "/api/v1/documents", "", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	var doc models.Document
	t.Run("create", func(t *testing.T) {
		resp := doJSON(t, ts, "POST", "/api/v1/documents", "alice",
			`{"name":"Invoice","type":"invoice","content":"v1 content"}`, &doc)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "Invoice", doc.Name)
		assert.Equal(t, 1, doc.CurrentVersion)
	})

	t.Run("get", func(t *testing.T) {
		var got models.Document
		resp := doJSON(t, ts, "GET", "/api/v1/documents/"+doc.ID.String(), "alice", "", &got)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, doc.ID, got.ID)
	})

	t.Run("unknown document is 404", func(t *testing.T) {
		resp := doJSON(t, ts, "GET",
			"/api/v1/documents/00000000-0000-0000-0000-000000000001", "alice", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("locked write is 423", func(t *testing.T) {
		var lock models.DocumentLock
		resp := doJSON(t, ts, "POST",
			"/api/v1/documents/"+doc.ID.String()+"/lock", "bob", `{}`, &lock)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body errorResponse
		resp = doJSON(t, ts, "POST",
			"/api/v1/documents/"+doc.ID.String()+"/versions", "alice",
			`{"content":"blocked"}`, &body)
		assert.Equal(t, StatusLocked, resp.StatusCode)
		assert.Equal(t, "bob", body.Holder)
	})

	t.Run("archive after delete is 409", func(t *testing.T) {
		var other models.Document
		resp := doJSON(t, ts, "POST", "/api/v1/documents", "alice",
			`{"name":"Short-lived"}`, &other)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = doJSON(t, ts, "DELETE", "/api/v1/documents/"+other.ID.String(), "alice", "", nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, ts, "POST",
			"/api/v1/documents/"+other.ID.String()+"/archive", "alice", "", nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestSearchAPI(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, ts, "POST", "/api/v1/documents", "alice",
		`{"name":"Budget report","tags":["finance"]}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("search by name", func(t *testing.T) {
		var results []docstore.SearchResult
		resp := doJSON(t, ts, "GET", "/api/v1/search?q=budget", "alice", "", &results)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, results, 1)
		assert.Equal(t, 10, results[0].Score)
	})

	t.Run("query is required", func(t *testing.T) {
		resp := doJSON(t, ts, "GET", "/api/v1/search", "alice", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("tag counts", func(t *testing.T) {
		var tags []docstore.TagCount
		resp := doJSON(t, ts, "GET", "/api/v1/tags", "alice", "", &tags)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, tags, 1)
		assert.Equal(t, "finance", tags[0].Tag)
	})
}
