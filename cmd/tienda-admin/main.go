// Точка входа tienda-admin — административный фронтенд магазина.
// Загружает конфигурацию, создаёт клиент REST-бэкенда, шифрованное
// хранилище сессии, страницы и контроллеры, запускает topologymetrics
// и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/bigkaa/tienda-admin/internal/api/handlers"
	"github.com/bigkaa/tienda-admin/internal/backend"
	"github.com/bigkaa/tienda-admin/internal/config"
	"github.com/bigkaa/tienda-admin/internal/obs"
	"github.com/bigkaa/tienda-admin/internal/server"
	"github.com/bigkaa/tienda-admin/internal/service"
	"github.com/bigkaa/tienda-admin/internal/ui/auth"
	"github.com/bigkaa/tienda-admin/internal/ui/controller"
	uihandlers "github.com/bigkaa/tienda-admin/internal/ui/handlers"
	"github.com/bigkaa/tienda-admin/internal/ui/i18n"
	uimiddleware "github.com/bigkaa/tienda-admin/internal/ui/middleware"
	"github.com/bigkaa/tienda-admin/internal/ui/pages"
)

// readinessTimeout — таймаут одной проверки бэкенда в /health/ready.
const readinessTimeout = 3 * time.Second

func main() {
	// 1. Конфигурация: .env (если есть), затем переменные окружения
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("Ошибка загрузки .env", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Логирование
	logger := config.SetupLogger(cfg)
	logger.Info("tienda-admin запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("backend_url", cfg.BackendURL),
	)

	ctx := context.Background()

	// 3. Трассировка (пустой TA_OTEL_ENDPOINT — noop)
	shutdownTracer, err := obs.InitTracer(ctx, cfg.OTelEndpoint, "tienda-admin", config.Version)
	if err != nil {
		logger.Warn("OpenTelemetry недоступен, запуск без трассировки",
			slog.String("error", err.Error()),
		)
		shutdownTracer = func(context.Context) error { return nil }
	}

	// 4. Клиент REST-бэкенда; таймаута нет, запрос отменяется вместе с входящим
	client, err := backend.New(backend.Options{
		BaseURL:        cfg.BackendURL,
		HTTPClient:     obs.HTTPClient(),
		ProductOwnerID: cfg.ProductOwnerID,
	}, logger)
	if err != nil {
		logger.Error("Ошибка создания клиента бэкенда", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Хранилище cookie сессии (AES-256-GCM)
	store, err := auth.NewCredentialStore(cfg.SessionSecret, cfg.SecureCookie)
	if err != nil {
		logger.Error("Ошибка создания хранилища сессии", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("TA_SESSION_SECRET не задан, сессии не сохраняются между рестартами")
	}

	// 6. Переводы и компоненты страниц
	bundle, err := i18n.Load(cfg.DefaultLang, logger)
	if err != nil {
		logger.Error("Ошибка загрузки переводов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	renderer := pages.New(bundle)

	// 7. Контроллеры страниц
	deps := controller.Deps{
		Renderer: renderer,
		Bundle:   bundle,
		Paging:   controller.Paging{DefaultSize: cfg.DefaultPageSize, Sizes: config.AllowedPageSizes},
		Logger:   logger,
	}
	ui := &server.UIComponents{
		SessionGate:  uimiddleware.NewSessionGate(client, store, logger),
		AuthHandler:  uihandlers.NewAuthHandler(client, store, renderer, bundle, logger),
		IndexHandler: uihandlers.NewIndexHandler(client, cfg.IndexPageSize, renderer, bundle, logger),
		Resources: []server.Mounter{
			controller.NewResource(uihandlers.ProductSchema(client, cfg.ProductImageFolder), deps),
			controller.NewResource(uihandlers.CategorySchema(client), deps),
		},
	}

	// 8. Health endpoints
	healthHandler := handlers.NewHealthHandler(
		service.NewBackendReadinessChecker(cfg.BackendHealthURL(), readinessTimeout),
	)

	// 9. topologymetrics — мониторинг бэкенда
	dephealthSvc, err := service.NewDephealthService(
		"tienda-admin",
		cfg.DephealthGroup,
		cfg.BackendURL,
		cfg.BackendHealthPath,
		cfg.DephealthCheckInterval,
		logger,
	)
	if err != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", err.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
		dephealthSvc = nil
	} else {
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 10. HTTP-сервер
	srv := server.New(cfg, logger, healthHandler, ui)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 11. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}
	flushCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := shutdownTracer(flushCtx); err != nil {
		logger.Warn("Ошибка остановки трассировки", slog.String("error", err.Error()))
	}

	logger.Info("tienda-admin остановлен")
}
