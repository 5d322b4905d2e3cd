package internal

import (
	"clanwatch/internal/controllers"
	"clanwatch/internal/providers"
	"clanwatch/internal/reminder/interfaces"
	"clanwatch/internal/storage"
	"clanwatch/internal/structures"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
}

// NewHandler builds the full HTTP handler: instrumented API routes plus the
// health and metrics endpoints.
func NewHandler(healthController *controllers.HealthController, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) http.Handler {
	routes := router.GetRoutes()
	apiMux := http.NewServeMux()
	for _, route := range routes {
		apiMux.Handle(route.Url, route.Handler)
	}
	instrumentedAPI := providers.RequestMiddleware(metrics, logger, routes, apiMux)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)
	return mux
}

// NewApp serves HTTP and runs the reminder scheduler until SIGINT or SIGTERM.
func NewApp(
	handler http.Handler,
	scheduler interfaces.SchedulerInterface,
	store storage.MembershipStoreInterface,
	cache providers.CacheProviderInterface,
	conf *structures.Config,
	logger providers.Logger,
) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      handler,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: conf.Upstream.Timeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.WebServer.Shutdown(ctx); err != nil && runErr == nil {
		runErr = err
	}

	if err := cache.Close(); err != nil {
		logger.Errorf(providers.TypeApp, "Cache close error: %s", err)
	}
	if err := store.Close(); err != nil {
		logger.Errorf(providers.TypeApp, "Store close error: %s", err)
	}
	if runErr != nil {
		return nil, runErr
	}

	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
