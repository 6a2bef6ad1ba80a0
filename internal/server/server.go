// Пакет server — HTTP-сервер tienda-admin с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на ingress.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apierrors "github.com/bigkaa/tienda-admin/internal/api/errors"
	"github.com/bigkaa/tienda-admin/internal/api/handlers"
	"github.com/bigkaa/tienda-admin/internal/api/middleware"
	"github.com/bigkaa/tienda-admin/internal/config"
	"github.com/bigkaa/tienda-admin/internal/obs"
	uihandlers "github.com/bigkaa/tienda-admin/internal/ui/handlers"
	"github.com/bigkaa/tienda-admin/internal/ui/i18n"
	uimiddleware "github.com/bigkaa/tienda-admin/internal/ui/middleware"
	"github.com/bigkaa/tienda-admin/internal/ui/static"
)

// Mounter — контроллер, который сам монтирует свои маршруты.
type Mounter interface {
	Routes(r chi.Router)
}

// UIComponents — зависимости страниц.
type UIComponents struct {
	SessionGate  *uimiddleware.SessionGate
	AuthHandler  *uihandlers.AuthHandler
	IndexHandler *uihandlers.IndexHandler
	Resources    []Mounter
}

// Server — HTTP-сервер tienda-admin.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, health *handlers.HealthHandler, ui *UIComponents) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      obs.Handler(NewRouter(cfg, logger, health, ui), "tienda-admin"),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает chi-роутер: служебные endpoints, статика и страницы.
func NewRouter(cfg *config.Config, logger *slog.Logger, health *handlers.HealthHandler, ui *UIComponents) chi.Router {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам).
	// Recoverer внутри метрик и логирования: паника учитывается как 500.
	router.Use(middleware.RequestID())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimw.Recoverer)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apierrors.NotFound(w, "путь не найден: "+r.URL.Path)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apierrors.MethodNotAllowed(w, "метод "+r.Method+" не поддерживается")
	})

	// Health и metrics проверяются Kubernetes напрямую, без сессии
	router.Get("/health/live", health.HealthLive)
	router.Get("/health/ready", health.HealthReady)
	router.Get("/metrics", health.GetMetrics)

	router.Handle("/static/*", static.Handler())

	if ui == nil {
		return router
	}

	router.Group(func(r chi.Router) {
		r.Use(i18n.Middleware(cfg.DefaultLang))
		r.Use(ui.SessionGate.Middleware())

		r.Get("/", ui.IndexHandler.HandleIndex)
		r.Get("/login", ui.AuthHandler.HandleLoginPage)
		r.Post("/login", ui.AuthHandler.HandleLogin)
		r.Post("/logout", ui.AuthHandler.HandleLogout)
		r.Post("/set-language", uihandlers.HandleSetLanguage)

		for _, res := range ui.Resources {
			res.Routes(r)
		}
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
