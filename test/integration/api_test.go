// Package integration provides end-to-end tests for the session API.
// Tests run the full container against both PostgreSQL and MySQL and are skipped
// when the databases are not reachable.
package integration

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sessions/internal/app"
	"github.com/allisson/sessions/internal/config"
	sessionDTO "github.com/allisson/sessions/internal/session/http/dto"
	"github.com/allisson/sessions/internal/testutil"
	userDTO "github.com/allisson/sessions/internal/user/http/dto"
)

const (
	testUsername = "integration_user"
	testPassword = "Password123" //nolint:gosec // test fixture, not a real credential
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and body. An empty
// token sends no Authorization header.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body any,
	token string,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

func (ctx *integrationTestContext) login(t *testing.T) sessionDTO.TokenPairResponse {
	t.Helper()

	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/auth/login", sessionDTO.LoginRequest{
		Username: testUsername,
		Password: testPassword,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var pair sessionDTO.TokenPairResponse
	require.NoError(t, json.Unmarshal(body, &pair))
	return pair
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	secret := make([]byte, 32)
	_, err := rand.Read(secret)
	require.NoError(t, err)

	cfg := &config.Config{
		DBDriver:               dbDriver,
		DBConnectionString:     dsn,
		DBMaxOpenConnections:   10,
		DBMaxIdleConnections:   5,
		DBConnMaxLifetime:      time.Hour,
		ServerHost:             "localhost",
		ServerPort:             8080,
		LogLevel:               "error",
		JWTSecret:              base64.StdEncoding.EncodeToString(secret),
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		TokenStore:             config.TokenStoreDatabase,
	}

	container := app.NewContainer(cfg)

	httpSrv, err := container.HTTPServer(t.Context())
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil after SetupRouter")

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    httptest.NewServer(handler),
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		if ctx.dbDriver == "postgres" {
			testutil.CleanupPostgresDB(t, ctx.db)
		} else {
			testutil.CleanupMySQLDB(t, ctx.db)
		}
		testutil.TeardownDB(t, ctx.db)
	}
}

var drivers = []struct {
	name     string
	dbDriver string
}{
	{"PostgreSQL", "postgres"},
	{"MySQL", "mysql"},
}

func TestIntegration_Health_BasicChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range drivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			t.Run("01_HealthCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]any
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "healthy", response["status"])
			})

			t.Run("02_ReadinessCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/ready", nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]any
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "ready", response["status"])
			})
		})
	}
}

// TestIntegration_Session_CompleteFlow walks a user through signup, login, refresh
// and logout, checking which tokens stay usable at every step.
func TestIntegration_Session_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range drivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			var first, second sessionDTO.TokenPairResponse

			t.Run("01_Signup", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/auth/signup", userDTO.RegisterUserRequest{
					Username: testUsername,
					Email:    "Integration@Example.com",
					Password: testPassword,
				}, "")
				require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

				var user userDTO.UserResponse
				require.NoError(t, json.Unmarshal(body, &user))
				assert.Equal(t, testUsername, user.Username)
				assert.Equal(t, "integration@example.com", user.Email)
			})

			t.Run("02_SignupDuplicate", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/auth/signup", userDTO.RegisterUserRequest{
					Username: testUsername,
					Email:    "other@example.com",
					Password: testPassword,
				}, "")
				assert.Equal(t, http.StatusConflict, resp.StatusCode)
			})

			t.Run("03_LoginWrongPassword", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/auth/login", sessionDTO.LoginRequest{
					Username: testUsername,
					Password: "Wrong12345",
				}, "")
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})

			t.Run("04_Login", func(t *testing.T) {
				first = ctx.login(t)
				assert.Equal(t, "Bearer", first.TokenType)
				assert.NotEqual(t, first.AccessToken, first.RefreshToken)
			})

			t.Run("05_SessionInfo", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/auth/session", nil, first.AccessToken)
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

				var session sessionDTO.SessionResponse
				require.NoError(t, json.Unmarshal(body, &session))
				assert.Equal(t, testUsername, session.Username)
			})

			t.Run("06_RefreshTokenRejectedAsAccess", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/auth/session", nil, first.RefreshToken)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			})

			t.Run("07_Refresh", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/auth/refresh", nil, first.RefreshToken)
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
				require.NoError(t, json.Unmarshal(body, &second))
				assert.NotEqual(t, first.AccessToken, second.AccessToken)
			})

			t.Run("08_PreviousPairRevoked", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/auth/session", nil, first.AccessToken)
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

				resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/auth/refresh", nil, first.RefreshToken)
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})

			t.Run("09_Logout", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/auth/logout", nil, second.AccessToken)
				assert.Equal(t, http.StatusNoContent, resp.StatusCode)
			})

			t.Run("10_TokensRejectedAfterLogout", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/auth/session", nil, second.AccessToken)
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

				resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/auth/refresh", nil, second.RefreshToken)
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})

			t.Run("11_LoginAgain", func(t *testing.T) {
				pair := ctx.login(t)

				resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/auth/session", nil, pair.AccessToken)
				assert.Equal(t, http.StatusOK, resp.StatusCode)
			})
		})
	}
}
