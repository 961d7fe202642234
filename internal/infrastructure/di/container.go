package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/domain/service"
	"github.com/123ang/iso-document/internal/infrastructure/access"
	"github.com/123ang/iso-document/internal/infrastructure/audit"
	"github.com/123ang/iso-document/internal/infrastructure/cache"
	"github.com/123ang/iso-document/internal/infrastructure/database"
	"github.com/123ang/iso-document/internal/infrastructure/metrics"
	infraRepo "github.com/123ang/iso-document/internal/infrastructure/repository"
	"github.com/123ang/iso-document/internal/infrastructure/storage"
	"github.com/123ang/iso-document/pkg/config"
	"github.com/123ang/iso-document/pkg/jwt"
)

const accessCacheNamespace = "access"

// HealthChecker は依存サービスの疎通確認を行うインターフェースです
type HealthChecker interface {
	Health(ctx context.Context) error
}

// auditShutdowner は停止処理を持つ監査サービスです
type auditShutdowner interface {
	service.AuditService
	Shutdown()
}

// Container はアプリケーションの依存関係を保持するDIコンテナです
type Container struct {
	// Infrastructure
	PgClient    *database.PostgresClient
	RedisClient *cache.RedisClient
	TxManager   *database.TxManager

	// Services
	JWTService    *jwt.JWTService
	BlobStorage   service.BlobStorage
	AccessChecker service.AccessChecker
	AuditService  service.AuditService
	Policy        service.VersionNumberingPolicy
	Metrics       *metrics.Recorder

	// Repositories
	DocumentRepo repository.DocumentRepository
	VersionRepo  repository.DocumentVersionRepository
	AuditLogRepo repository.AuditLogRepository

	// Versioning UseCases
	Versioning *VersioningUseCases

	// 疎通確認対象
	HealthCheckers map[string]HealthChecker

	config *config.Config
}

// Options はContainer作成時のオプションを定義します
type Options struct {
	PostgresPool *pgxpool.Pool
	RedisClient  *redis.Client
	BlobStorage  service.BlobStorage
	Registerer   prometheus.Registerer
}

// NewContainer は新しいContainerを作成します
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	return NewContainerWithOptions(ctx, cfg, Options{})
}

// NewContainerWithOptions はオプションを指定してContainerを作成します
func NewContainerWithOptions(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	c := &Container{
		config:         cfg,
		HealthCheckers: make(map[string]HealthChecker),
	}

	// PostgreSQL
	if opts.PostgresPool != nil {
		c.TxManager = database.NewTxManager(opts.PostgresPool)
	} else {
		slog.Info("connecting to PostgreSQL...")
		dbConfig := database.DefaultDBConfig()
		dbConfig.MaxConns = int32(cfg.Database.MaxConns)
		dbConfig.LockTimeout = cfg.Database.LockTimeout
		pgClient, err := database.NewPostgresClient(ctx, cfg.Database.URL, dbConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		c.PgClient = pgClient
		c.TxManager = database.NewTxManager(pgClient.Pool())
		c.HealthCheckers["postgres"] = pgClient
		slog.Info("connected to PostgreSQL")
	}

	// Access cache (Redis if configured, otherwise in-process LRU)
	var accessCache cache.Store
	switch {
	case opts.RedisClient != nil:
		accessCache = cache.NewCache(opts.RedisClient, accessCacheNamespace, cfg.AccessCache.TTL)
	case cfg.Redis.URL != "":
		slog.Info("connecting to Redis...")
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.RedisClient = redisClient
		c.HealthCheckers["redis"] = redisClient
		accessCache = redisClient.NewCache(accessCacheNamespace, cfg.AccessCache.TTL)
		slog.Info("connected to Redis")
	default:
		accessCache = cache.NewLocalCache(accessCacheNamespace, cfg.AccessCache.Size, cfg.AccessCache.TTL)
	}

	// Blob storage
	if opts.BlobStorage != nil {
		c.BlobStorage = opts.BlobStorage
	} else if err := c.initBlobStorage(ctx); err != nil {
		c.Close()
		return nil, err
	}

	// JWT Service
	jwtConfig := jwt.DefaultConfig()
	jwtConfig.SecretKey = cfg.JWT.SecretKey
	jwtConfig.Issuer = cfg.JWT.Issuer
	jwtConfig.Audience = cfg.JWT.Audience
	if err := jwtConfig.Validate(); err != nil {
		c.Close()
		return nil, fmt.Errorf("invalid JWT config: %w", err)
	}
	c.JWTService = jwt.NewJWTService(jwtConfig)

	// Version numbering policy
	policy, err := service.NewVersionNumberingPolicy(service.VersionPolicyName(cfg.Versioning.Policy))
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Policy = policy

	// Metrics
	registerer := opts.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	c.Metrics = metrics.NewRecorder(registerer)

	// Repositories
	c.DocumentRepo = infraRepo.NewDocumentRepository(c.TxManager)
	c.VersionRepo = infraRepo.NewDocumentVersionRepository(c.TxManager)
	c.AuditLogRepo = infraRepo.NewAuditLogRepository(c.TxManager)

	// Access checker
	c.AccessChecker = access.NewCachedChecker(access.NewPostgresChecker(c.TxManager), accessCache)

	// Audit
	if cfg.Audit.Enabled {
		c.AuditService = audit.NewService(c.AuditLogRepo, cfg.Audit.BufferSize, audit.WithObserver(c.Metrics))
	} else {
		c.AuditService = audit.NoopService{}
	}

	return c, nil
}

// initBlobStorage は設定に応じてファイル実体の保存先を初期化します
func (c *Container) initBlobStorage(ctx context.Context) error {
	cfg := c.config.Storage

	switch cfg.Backend {
	case config.StorageBackendMinIO:
		slog.Info("connecting to MinIO...")
		minioStore, err := storage.NewMinIOStore(ctx, storage.MinIOConfig{
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			BucketName:      cfg.BucketName,
			UseSSL:          cfg.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize MinIO storage: %w", err)
		}
		c.BlobStorage = minioStore
		c.HealthCheckers["storage"] = minioStore
		slog.Info("connected to MinIO", "endpoint", cfg.Endpoint, "bucket", cfg.BucketName)
	default:
		localStore, err := storage.NewLocalStore(cfg.LocalPath)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		c.BlobStorage = localStore
		c.HealthCheckers["storage"] = localStore
		slog.Info("using local storage", "root", localStore.Root())
	}

	return nil
}

// InitVersioningUseCases はVersioning UseCasesを初期化します
func (c *Container) InitVersioningUseCases() {
	c.Versioning = NewVersioningUseCases(c, c.config.Storage.MaxFileSize)
}

// Config は設定を返します
func (c *Container) Config() *config.Config {
	return c.config
}

// Close はリソースをクリーンアップします
func (c *Container) Close() error {
	var errs []error

	if s, ok := c.AuditService.(auditShutdowner); ok {
		s.Shutdown()
	}

	if c.PgClient != nil {
		c.PgClient.Close()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}
