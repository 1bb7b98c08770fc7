package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3" // CGo-based SQLite driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kaouthar-hr/Move2See-Project/internal/appconf"
)

func testConfig(port int) appconf.Config {
	return appconf.Config{
		Name:      "move2see",
		Port:      port,
		Env:       appconf.Test,
		DBPath:    ":memory:",
		ApiKeys:   []string{"test"},
		AdminKeys: []string{"admin"},
		RateLimit: 100,
		Verbose:   false,
	}
}

func TestParseAPIKeys(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Single key",
			input:    "test-key",
			expected: []string{"test-key"},
		},
		{
			name:     "Multiple keys",
			input:    "key1,key2,key3",
			expected: []string{"key1", "key2", "key3"},
		},
		{
			name:     "Keys with spaces",
			input:    " key1 , key2 , key3 ",
			expected: []string{"key1", "key2", "key3"},
		},
		{
			name:     "Empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "Keys with mixed whitespace",
			input:    "key1,  key2  ,   key3",
			expected: []string{"key1", "key2", "key3"},
		},
		{
			name:     "Single key with whitespace",
			input:    "  test-key  ",
			expected: []string{"test-key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseAPIKeys(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseAPIKeysEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Only commas",
			input:    ",,,",
			expected: []string{"", "", "", ""},
		},
		{
			name:     "Commas with spaces",
			input:    " , , , ",
			expected: []string{"", "", "", ""},
		},
		{
			name:     "Single comma",
			input:    ",",
			expected: []string{"", ""},
		},
		{
			name:     "Trailing comma",
			input:    "key1,",
			expected: []string{"key1", ""},
		},
		{
			name:     "Leading comma",
			input:    ",key1",
			expected: []string{"", "key1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseAPIKeys(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestBuildApplicationWithMemoryDB(t *testing.T) {
	cfg := testConfig(4000)

	coreApp, err := BuildApplication(cfg)

	require.NoError(t, err, "BuildApplication should not return an error")
	assert.NotNil(t, coreApp, "Application should not be nil")
	assert.NotNil(t, coreApp.Logger, "Logger should be initialized")
	assert.NotNil(t, coreApp.DB, "Database client should be initialized")
	assert.NotNil(t, coreApp.Metrics, "Metrics should be initialized")
	assert.Equal(t, cfg, coreApp.Config, "Config should match input")

	coreApp.Metrics.Shutdown()
	require.NoError(t, coreApp.DB.Close())
}

func TestBuildApplicationRejectsFileDBInTestEnv(t *testing.T) {
	cfg := testConfig(4000)
	cfg.DBPath = "/tmp/move2see-test.db"

	_, err := BuildApplication(cfg)
	assert.Error(t, err, "Test environment must use an in-memory database")
	assert.Contains(t, err.Error(), "failed to initialize tour database")
}

func TestCreateServer(t *testing.T) {
	cfg := testConfig(8080)

	coreApp, err := BuildApplication(cfg)
	require.NoError(t, err, "BuildApplication should not fail")
	defer func() {
		coreApp.Metrics.Shutdown()
		_ = coreApp.DB.Close()
	}()

	srv, api := CreateServer(coreApp, cfg)

	assert.NotNil(t, srv, "Server should not be nil")
	assert.NotNil(t, api, "RestAPI should not be nil")
	assert.Equal(t, ":8080", srv.Addr, "Server address should match port")
	assert.NotNil(t, srv.Handler, "Server handler should be set")
	assert.Equal(t, time.Minute, srv.IdleTimeout, "IdleTimeout should be 1 minute")
	assert.Equal(t, 5*time.Second, srv.ReadTimeout, "ReadTimeout should be 5 seconds")
	assert.Equal(t, 10*time.Second, srv.WriteTimeout, "WriteTimeout should be 10 seconds")
}

func TestCreateServerHandlerResponds(t *testing.T) {
	cfg := testConfig(8080)

	coreApp, err := BuildApplication(cfg)
	require.NoError(t, err, "BuildApplication should not fail")
	defer func() {
		coreApp.Metrics.Shutdown()
		_ = coreApp.DB.Close()
	}()

	srv, _ := CreateServer(coreApp, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/current-time?key=test", nil)
	w := httptest.NewRecorder()

	srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "current-time endpoint should respond")
}

func TestCreateServerServesMetrics(t *testing.T) {
	cfg := testConfig(8080)

	coreApp, err := BuildApplication(cfg)
	require.NoError(t, err, "BuildApplication should not fail")
	defer func() {
		coreApp.Metrics.Shutdown()
		_ = coreApp.DB.Close()
	}()

	srv, _ := CreateServer(coreApp, cfg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "metrics endpoint should respond")
}

func TestCreateServerRejectsMissingKey(t *testing.T) {
	cfg := testConfig(8080)

	coreApp, err := BuildApplication(cfg)
	require.NoError(t, err, "BuildApplication should not fail")
	defer func() {
		coreApp.Metrics.Shutdown()
		_ = coreApp.DB.Close()
	}()

	srv, _ := CreateServer(coreApp, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/current-time", nil)
	w := httptest.NewRecorder()

	srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code, "request without an API key should be rejected")
}

func TestServerShutsDownCleanly(t *testing.T) {
	cfg := testConfig(0) // Use port 0 to get a random available port

	coreApp, err := BuildApplication(cfg)
	require.NoError(t, err, "BuildApplication should not fail")
	defer func() {
		coreApp.Metrics.Shutdown()
		_ = coreApp.DB.Close()
	}()

	srv, _ := CreateServer(coreApp, cfg)

	done := make(chan error, 1)
	go func() {
		go func() {
			time.Sleep(50 * time.Millisecond)
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			done <- err
		} else {
			done <- nil
		}
	}()

	select {
	case err := <-done:
		assert.NoError(t, err, "Server should shutdown cleanly")
	case <-time.After(10 * time.Second):
		t.Fatal("Test timeout - server did not shutdown")
	}
}
