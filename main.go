package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"krishi-sahayak/backend/internal/config"
	"krishi-sahayak/backend/internal/features/advisory/application"
	"krishi-sahayak/backend/internal/logger"
	"krishi-sahayak/backend/internal/server"
)

func main() {
	envErr := config.LoadEnv()

	settings, err := config.LoadSettings()
	if err != nil {
		logger.NewLogger("info", true).Fatal("Failed to load settings", logrus.Fields{"error": err.Error()})
	}

	log := logger.NewLogger(settings.Log.Level, settings.Log.JSON)
	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	catalog, err := config.NewCatalogService(settings.Catalog.Path).LoadCatalog()
	if err != nil {
		log.Fatal("Failed to load advisory catalog", logrus.Fields{"error": err.Error()})
	}

	// Initialize services
	priceLookup := application.NewPriceLookupService(catalog.Prices, settings.Advisory.LookupDelay)
	routerService := application.NewRouterService(catalog, priceLookup, settings.Advisory.ThinkDelay, log)

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(server.Dependencies{
		Logger:        log,
		RouterService: routerService,
		Catalog:       catalog,
	})

	srv := &http.Server{
		Addr:         settings.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  settings.HTTP.ReadTimeout,
		WriteTimeout: settings.HTTP.WriteTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("Server is running", logrus.Fields{"addr": settings.HTTP.Addr, "rules": len(catalog.Rules)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", logrus.Fields{"error": err.Error()})
		}
	}()

	<-stop
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), settings.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", logrus.Fields{"error": err.Error()})
	}
}
