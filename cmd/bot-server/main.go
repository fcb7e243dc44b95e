package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"

	"subcast/internal/boot"
	"subcast/internal/handlers"
	"subcast/internal/media"
	"subcast/internal/provider"
	"subcast/internal/registry"
	"subcast/internal/service/bot"
	"subcast/internal/service/broadcast"
)

func main() {
	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	store, err := registry.New(config)
	if err != nil {
		log.Fatalf("creating registry store: %+v", err)
	}

	whatsapp := provider.New(config)
	botService := bot.New(store)
	mediaService := media.New(config, whatsapp)
	broadcastService := broadcast.New(config, store, whatsapp)

	server := echo.New()
	server.Use(middleware.BodyLimit("2M"))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware("subcast"))
	server.Use(middleware.Recover())

	server.Logger.SetLevel(log.INFO)
	server.Validator = handlers.NewValidator()

	headers := []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization}
	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     headers,
		AllowCredentials: true,
	}))

	server.GET("/health", handlers.Health())
	server.GET("/webhook", handlers.VerifyWebhook(config.VerifyToken()))
	server.POST("/webhook", handlers.ReceiveWebhook(botService, mediaService, whatsapp))
	server.POST("/admin/broadcast", handlers.AdminBroadcast(broadcastService))

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(":" + config.Server.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	go func() {
		if err := server.Start(":" + config.Server.Port); err != nil && err != http.ErrServerClosed {
			server.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Logger.Fatal(err)
	}
}
