package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/123ang/iso-document/internal/infrastructure/di"
	"github.com/123ang/iso-document/internal/infrastructure/storage"
	"github.com/123ang/iso-document/internal/interface/middleware"
	"github.com/123ang/iso-document/internal/interface/router"
	"github.com/123ang/iso-document/internal/interface/validator"
	"github.com/123ang/iso-document/pkg/config"
)

// TestServer holds all test server dependencies
type TestServer struct {
	Echo      *echo.Echo
	Pool      *pgxpool.Pool
	Container *di.Container
	Storage   *storage.LocalStore
	Registry  *prometheus.Registry
}

// TestServerOption customizes the configuration used by NewTestServer
type TestServerOption func(cfg *config.Config)

// WithMaxFileSize overrides the upload size limit
func WithMaxFileSize(n int64) TestServerOption {
	return func(cfg *config.Config) { cfg.Storage.MaxFileSize = n }
}

// WithVersionPolicy overrides the version numbering policy
func WithVersionPolicy(policy string) TestServerOption {
	return func(cfg *config.Config) { cfg.Versioning.Policy = policy }
}

// NewTestServer creates a fully configured test server backed by PostgreSQL and a temp directory
func NewTestServer(t *testing.T, opts ...TestServerOption) *TestServer {
	t.Helper()

	testConfig := DefaultTestConfig()
	pool := SetupTestEnvironment(t)
	ResetTables(t, pool)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey: testConfig.JWTSecretKey,
			Issuer:    "iso-document",
			Audience:  []string{"iso-document-api"},
		},
		Storage: config.StorageConfig{
			Backend:     config.StorageBackendLocal,
			MaxFileSize: 10 << 20,
		},
		Versioning: config.VersioningConfig{
			Policy: "major_only",
		},
		Audit: config.AuditConfig{
			Enabled:    true,
			BufferSize: 100,
		},
		AccessCache: config.AccessCacheConfig{
			TTL:  time.Second,
			Size: 128,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	localStore, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	container, err := di.NewContainerWithOptions(context.Background(), cfg, di.Options{
		PostgresPool: pool,
		BlobStorage:  localStore,
		Registerer:   registry,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	container.InitVersioningUseCases()

	e := echo.New()
	e.Validator = validator.NewCustomValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Use(middleware.RequestID())

	router.NewRouter(e, di.NewHandlersForTest(container), di.NewMiddlewares(container)).Setup()

	return &TestServer{
		Echo:      e,
		Pool:      pool,
		Container: container,
		Storage:   localStore,
		Registry:  registry,
	}
}

// AdminToken issues an access token for an administrator
func (ts *TestServer) AdminToken(t *testing.T) string {
	t.Helper()
	token, err := ts.Container.JWTService.GenerateAccessToken(uuid.New(), "admin", nil)
	require.NoError(t, err)
	return token
}

// UserToken issues an access token for a regular user in the given groups
func (ts *TestServer) UserToken(t *testing.T, groupIDs ...uuid.UUID) string {
	t.Helper()
	token, err := ts.Container.JWTService.GenerateAccessToken(uuid.New(), "user", groupIDs)
	require.NoError(t, err)
	return token
}

// Cleanup cleans up test data
func (ts *TestServer) Cleanup(t *testing.T) {
	t.Helper()
	ResetTables(t, ts.Pool)
}
