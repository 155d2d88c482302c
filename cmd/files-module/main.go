// Точка входа Files Module — хранение файлов и папок пользователей.
// Загружает конфигурацию, подключает хранилища метаданных, сессий
// и содержимого, создаёт сервисный слой и API handlers,
// запускает topologymetrics и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/goartstore/files-module/internal/api/handlers"
	"github.com/bigkaa/goartstore/files-module/internal/api/openapi"
	"github.com/bigkaa/goartstore/files-module/internal/config"
	"github.com/bigkaa/goartstore/files-module/internal/database"
	"github.com/bigkaa/goartstore/files-module/internal/repository"
	"github.com/bigkaa/goartstore/files-module/internal/server"
	"github.com/bigkaa/goartstore/files-module/internal/service"
	"github.com/bigkaa/goartstore/files-module/internal/storage/blobstore"
	"github.com/bigkaa/goartstore/files-module/internal/storage/memstore"
	"github.com/bigkaa/goartstore/files-module/internal/tokenstore"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Files Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("metadata_backend", cfg.MetadataBackend),
		slog.String("token_backend", cfg.TokenBackend),
	)

	ctx := context.Background()

	// 3. Проверка встроенного OpenAPI документа
	if _, err := openapi.Load(ctx); err != nil {
		logger.Error("Некорректный OpenAPI документ", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Хранилище метаданных
	var (
		files           repository.FileRepository
		users           repository.UserRepository
		metadataPinger  service.Pinger
		metadataChecker handlers.ReadinessChecker
		dephealthSvc    *service.DephealthService
	)

	switch cfg.MetadataBackend {
	case config.BackendPostgres:
		// 4.1 Применение миграций БД
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
			os.Exit(1)
		}

		// 4.2 Подключение к PostgreSQL (pgxpool)
		pool, err := database.Connect(ctx, cfg, logger)
		if err != nil {
			logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		files = repository.NewFileRepository(pool)
		users = repository.NewUserRepository(pool)
		pgChecker := database.NewReadinessChecker(pool)
		metadataPinger = pgChecker
		metadataChecker = pgChecker

		// 4.3 topologymetrics через существующий пул (connection pool mode)
		pgDB := stdlib.OpenDBFromPool(pool)
		defer pgDB.Close()

		dephealthSvc = startDephealth(ctx, cfg, pgDB, logger)

	default:
		logger.Warn("Метаданные хранятся в памяти и теряются при рестарте")
		memFiles := memstore.NewFiles(logger)
		files = memFiles
		users = memstore.NewUsers()
		metadataPinger = memFiles
		metadataChecker = handlers.NewPingChecker("metadata", memFiles)
	}

	// 5. Хранилище сессий
	var (
		tokens         tokenstore.Store
		sessionChecker handlers.ReadinessChecker
	)

	switch cfg.TokenBackend {
	case config.BackendRedis:
		client, err := tokenstore.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("Ошибка подключения к Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer client.Close()

		redisStore := tokenstore.NewRedisStore(client, logger)
		tokens = redisStore
		sessionChecker = redisStore
		logger.Info("Подключение к Redis установлено", slog.String("addr", cfg.RedisAddr))

	default:
		logger.Warn("Сессии хранятся в памяти и теряются при рестарте")
		memTokens := tokenstore.NewMemoryStore()
		tokens = memTokens
		sessionChecker = handlers.NewPingChecker("sessions", memTokens)
	}

	// 6. Хранилище содержимого
	blobs, err := blobstore.New(cfg.FolderPath)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища содержимого",
			slog.String("path", cfg.FolderPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	logger.Info("Хранилище содержимого готово", slog.String("path", blobs.Root()))

	// 7. Сервисный слой
	cache := service.NewCacheService(cfg.CacheSize, cfg.CacheTTL)
	sessionSvc := service.NewSessionService(tokens, logger)
	fileSvc := service.NewFileService(files, blobs, cache, logger)
	userSvc := service.NewUserService(users, logger)
	authSvc := service.NewAuthService(users, tokens, sessionSvc, cfg.SessionTTL, logger)
	appSvc := service.NewAppService(tokens, metadataPinger, users, files)

	// 8. API handlers
	healthHandler := handlers.NewHealthHandler(metadataChecker, sessionChecker)
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		fileSvc,
		userSvc,
		authSvc,
		appSvc,
		cfg.MaxUploadSize,
		logger,
	)

	// 9. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, sessionSvc)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 10. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Files Module остановлен")
}

// startDephealth запускает мониторинг PostgreSQL через topologymetrics.
// Ошибка не фатальна: сервис работает без метрик зависимостей.
func startDephealth(ctx context.Context, cfg *config.Config, db *sql.DB, logger *slog.Logger) *service.DephealthService {
	if os.Getenv("FM_DEPHEALTH_GROUP") == "" {
		logger.Warn("FM_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	svc, err := service.NewDephealthService(
		"files-module",
		cfg.DephealthGroup,
		db,
		cfg.DatabaseURL(),
		cfg.DephealthCheckInterval,
		logger,
	)
	if err != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", err.Error()),
		)
		return nil
	}

	if err := svc.Start(ctx); err != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", err.Error()),
		)
		return nil
	}

	logger.Info("topologymetrics запущен",
		slog.String("group", cfg.DephealthGroup),
		slog.String("check_interval", cfg.DephealthCheckInterval.String()),
	)
	return svc
}
