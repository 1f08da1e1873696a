package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/application"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/configuration"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/httpapi"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/logging"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/middleware"

	"github.com/gorilla/mux"
)

func main() {
	conf := configuration.Use()
	log := logging.Setup(conf.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := newPool(ctx, conf)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	app := application.New(pool, log)
	if err := modules.Load(app); err != nil {
		log.WithError(err).Fatal("failed to load modules")
	}
	if err := app.ApplySchemas(ctx); err != nil {
		log.WithError(err).Fatal("failed to apply schemas")
	}

	server := &http.Server{
		Addr:         conf.Address,
		Handler:      newHandler(conf, log, pool, app),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
	}()

	log.WithField("address", conf.Address).Info("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server failed")
	}
}

// newHandler assembles the HTTP surface. The metrics path is mounted on the
// root mux ahead of the API router so scrapes, which carry no tenant header,
// never pass through the tenant middleware chain.
func newHandler(conf *configuration.Configuration, log *logrus.Logger, pool *pgxpool.Pool, app application.Application) http.Handler {
	router := mux.NewRouter()
	router.Use(
		middleware.WithLogger(log),
		middleware.WithPool(pool),
		middleware.RequireTenantHeader(),
	)
	for _, controller := range app.Controllers() {
		controller.Register(router)
	}
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})

	root := http.NewServeMux()
	if conf.Prometheus.Enabled {
		root.Handle(conf.Prometheus.Path, promhttp.Handler())
	}
	root.Handle("/", router)
	return root
}

func newPool(ctx context.Context, conf *configuration.Configuration) (*pgxpool.Pool, error) {
	poolConf, err := pgxpool.ParseConfig(conf.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	poolConf.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return pgxpool.NewWithConfig(ctx, poolConf)
}
