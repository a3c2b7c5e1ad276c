package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/tasks-api/internal/api"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Host:                   "127.0.0.1",
			Port:                   8000,
			LogLevel:               "debug",
			ShutdownTimeoutSeconds: 5,
		},
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			URL:          filepath.Join(t.TempDir(), "database.db"),
			MaxOpenConns: 4,
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *application {
	t.Helper()
	app, err := newApplication(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(app.cleanup)
	return app
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	app := newTestApp(t, testConfig(t))
	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func createTask(t *testing.T, srv *httptest.Server, body string) api.TaskResponse {
	t.Helper()
	status, data := call(t, srv, http.MethodPost, "/tasks/", body)
	require.Equal(t, http.StatusOK, status, string(data))
	var task api.TaskResponse
	require.NoError(t, json.Unmarshal(data, &task))
	return task
}

func errorMessage(t *testing.T, data []byte) string {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &body))
	assert.NotEmpty(t, body.TraceID, "error responses carry a trace id")
	return body.Error
}

func TestTaskLifecycle(t *testing.T) {
	srv := newTestServer(t)

	created := createTask(t, srv, `{"text": "Buy milk", "day": "Mon", "reminder": true}`)
	assert.Positive(t, created.ID)
	assert.Equal(t, "Buy milk", created.Text)
	assert.Equal(t, "Mon", created.Day)
	assert.True(t, created.Reminder)

	path := fmt.Sprintf("/tasks/%d", created.ID)

	status, data := call(t, srv, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, status)
	var got api.TaskResponse
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, created, got)

	status, data = call(t, srv, http.MethodPatch, path, `{"day": "Tue"}`)
	require.Equal(t, http.StatusOK, status)
	var updated api.TaskResponse
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.Equal(t, api.TaskResponse{ID: created.ID, Text: "Buy milk", Day: "Tue", Reminder: true}, updated)

	status, data = call(t, srv, http.MethodPatch, path, `{"reminder": false}`)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.False(t, updated.Reminder)
	assert.Equal(t, "Tue", updated.Day)

	status, data = call(t, srv, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok": true}`, string(data))

	status, data = call(t, srv, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found", errorMessage(t, data))

	status, data = call(t, srv, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found", errorMessage(t, data))
}

func TestListTasks(t *testing.T) {
	srv := newTestServer(t)

	status, data := call(t, srv, http.MethodGet, "/tasks/", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(data))

	const n = 5
	for i := 0; i < n; i++ {
		createTask(t, srv, fmt.Sprintf(`{"text": "task %d", "day": "Mon", "reminder": false}`, i))
	}

	// The collection is served with and without the trailing slash.
	for _, path := range []string{"/tasks/", "/tasks"} {
		status, data = call(t, srv, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, status)
		var tasks []api.TaskResponse
		require.NoError(t, json.Unmarshal(data, &tasks))
		require.Len(t, tasks, n)
		for i, task := range tasks {
			assert.Equal(t, fmt.Sprintf("task %d", i), task.Text)
		}
	}
}

func TestNotFoundOnEmptyStore(t *testing.T) {
	srv := newTestServer(t)

	status, data := call(t, srv, http.MethodGet, "/tasks/99999", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found", errorMessage(t, data))

	status, _ = call(t, srv, http.MethodPatch, "/tasks/99999", `{"day": "Tue"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestNonPositiveIDsAreNotFound(t *testing.T) {
	srv := newTestServer(t)
	createTask(t, srv, `{"text": "Buy milk", "day": "Mon", "reminder": true}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"get zero", http.MethodGet, "/tasks/0", ""},
		{"get negative", http.MethodGet, "/tasks/-1", ""},
		{"patch zero", http.MethodPatch, "/tasks/0", `{"day": "Tue"}`},
		{"delete zero", http.MethodDelete, "/tasks/0", ""},
		{"delete negative", http.MethodDelete, "/tasks/-1", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, data := call(t, srv, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusNotFound, status)
			assert.Equal(t, "Task not found", errorMessage(t, data))
		})
	}
}

func TestBadRequests(t *testing.T) {
	srv := newTestServer(t)
	created := createTask(t, srv, `{"text": "Buy milk", "day": "Mon", "reminder": true}`)
	path := fmt.Sprintf("/tasks/%d", created.ID)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"create missing field", http.MethodPost, "/tasks/", `{"text": "x", "day": "Mon"}`},
		{"create malformed", http.MethodPost, "/tasks", `{`},
		{"create trailing data", http.MethodPost, "/tasks/", `{"text": "a", "day": "Mon", "reminder": false} trailing`},
		{"patch null", http.MethodPatch, path, `{"text": null}`},
		{"patch wrong type", http.MethodPatch, path, `{"reminder": "no"}`},
		{"non-integer id", http.MethodGet, "/tasks/abc", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, data := call(t, srv, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, errorMessage(t, data))
		})
	}

	// Rejected patches leave the row untouched.
	status, data := call(t, srv, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, status)
	var got api.TaskResponse
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, created, got)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	for _, origin := range allowedOrigins {
		t.Run(origin, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodOptions, srv.URL+"/tasks/", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
			req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Custom")

			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, origin, resp.Header.Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
			assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPatch)
		})
	}

	for _, method := range allowedMethods {
		t.Run("preflight "+method, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodOptions, srv.URL+"/tasks/1", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", allowedOrigins[0])
			req.Header.Set("Access-Control-Request-Method", method)

			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, allowedOrigins[0], resp.Header.Get("Access-Control-Allow-Origin"))
			assert.Equal(t, method, resp.Header.Get("Access-Control-Allow-Methods"))
		})
	}

	t.Run("disallowed origin", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/tasks/", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://evil.example")

		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	status, data := call(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", string(data))

	createTask(t, srv, `{"text": "Buy milk", "day": "Mon", "reminder": true}`)

	status, data = call(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, status)
	body := string(data)
	assert.Regexp(t, `http_requests_total\{method="POST",route="/tasks/?",status="200"\} 1`, body)
	assert.Contains(t, body, `store_operation_duration_seconds_count{operation="create",status="ok"} 1`)
}

func TestUnknownRoutes(t *testing.T) {
	srv := newTestServer(t)

	status, data := call(t, srv, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not found", errorMessage(t, data))

	status, data = call(t, srv, http.MethodPut, "/tasks/1", `{"day": "Tue"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "Method not allowed", errorMessage(t, data))
}

func TestSchemaSurvivesRestart(t *testing.T) {
	cfg := testConfig(t)

	first := newTestApp(t, cfg)
	srv := httptest.NewServer(first.setupRouter())
	created := createTask(t, srv, `{"text": "Buy milk", "day": "Mon", "reminder": true}`)
	srv.Close()
	first.cleanup()

	second := newTestApp(t, cfg)
	srv = httptest.NewServer(second.setupRouter())
	defer srv.Close()

	status, data := call(t, srv, http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), "")
	require.Equal(t, http.StatusOK, status)
	var got api.TaskResponse
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, created, got)
}

func TestQueryLogging(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.LogQueries = true

	log, buf := logger.NewTestLogger()
	app, err := newApplication(context.Background(), cfg, log)
	require.NoError(t, err)
	defer app.cleanup()

	_, err = app.taskService.ListTasks(context.Background())
	require.NoError(t, err)

	entry, ok := buf.FindEntry("sql statement")
	require.True(t, ok, "expected statements to be echoed")
	assert.Contains(t, entry["query"], "FROM task")
}

func TestNewApplication_BadDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	_, err := newApplication(context.Background(), cfg, slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestServe_GracefulShutdown(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln, app.setupRouter()) }()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "database.db")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	yaml := fmt.Sprintf("server:\n  log_level: error\ndatabase:\n  url: %q\n", dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o600))

	// Twice: the second run is a no-op.
	for i := 0; i < 2; i++ {
		var out bytes.Buffer
		cmd := newRootCommand()
		cmd.Commands[1] = newMigrateCommand(&out)

		require.NoError(t, cmd.Run(context.Background(), []string{"tasks-api", "--config", cfgPath, "migrate"}))
		assert.Equal(t, "schema version: 1\n", out.String())
	}

	_, err := os.Stat(dbPath)
	assert.NoError(t, err, "migrate should create the database file")
}

func TestRootCommand_BadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("server:\n  port: 0\n"), 0o600))

	err := newRootCommand().Run(context.Background(), []string{"tasks-api", "-c", cfgPath, "serve"})
	assert.ErrorContains(t, err, "validation failed")
}
